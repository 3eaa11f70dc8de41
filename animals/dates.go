package animals

import (
	"strings"
	"time"
)

// isoLayouts are the accepted ISO-8601 forms, most specific first.
// Layouts without a zone are interpreted as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISODate parses a date or date-time such as "2024-11-01",
// "2024-11-01T10:30:00" or "2024-11-01 10:30:00+02:00".
func ParseISODate(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	// A space is an accepted separator between date and time.
	if len(value) > 10 && value[10] == ' ' {
		value = value[:10] + "T" + value[11:]
	}

	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, &Error{Kind: KindInvalidDate, Reason: ReasonInvalidDate, Args: []any{s}, Err: lastErr}
}
