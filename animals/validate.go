package animals

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength = 2
	MaxNameLength = 30
)

var namePattern = regexp.MustCompile(`^[A-Za-z-]+$`)

// ValidateName returns name unchanged when it is an acceptable animal name.
// Checks run in a fixed order so the first violated rule is reported.
func ValidateName(name string) (string, error) {
	length := utf8.RuneCountInString(name)
	if length < MinNameLength {
		return "", newError(KindInvalidNameFormat, ReasonNameTooShort, MinNameLength)
	}
	if length > MaxNameLength {
		return "", newError(KindInvalidNameFormat, ReasonNameTooLong, MaxNameLength)
	}
	if strings.HasSuffix(name, " ") {
		return "", newError(KindInvalidNameFormat, ReasonNameTrailing)
	}
	if !namePattern.MatchString(name) {
		return "", newError(KindInvalidNameFormat, ReasonNameCharset)
	}
	return name, nil
}
