package animals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{name: "simple", input: "Lion"},
		{name: "hyphenated", input: "Sea-Lion"},
		{name: "minimum length", input: "Ox"},
		{name: "maximum length", input: strings.Repeat("a", 30)},
		{name: "lowercase", input: "zebra"},
		{name: "empty", input: "", wantReason: ReasonNameTooShort},
		{name: "one char", input: "a", wantReason: ReasonNameTooShort},
		{name: "too long", input: strings.Repeat("a", 31), wantReason: ReasonNameTooLong},
		{name: "trailing space", input: "Lion ", wantReason: ReasonNameTrailing},
		{name: "inner space", input: "Sea Lion", wantReason: ReasonNameCharset},
		{name: "digit", input: "Lion2", wantReason: ReasonNameCharset},
		{name: "underscore", input: "Sea_Lion", wantReason: ReasonNameCharset},
		{name: "diacritic", input: "Żubr", wantReason: ReasonNameCharset},
		{name: "trailing newline", input: "Lion\n", wantReason: ReasonNameCharset},
		{name: "length counted in characters", input: strings.Repeat("ż", 16), wantReason: ReasonNameCharset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)

			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidNameFormat)

			var appErr *Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantReason, appErr.Reason)
		})
	}
}

func TestValidateName_AcceptedNamesSatisfyRules(t *testing.T) {
	candidates := []string{"Ox", "Lion", "Sea-Lion", "-a", "--", "a b", "ab ", "x", strings.Repeat("b", 31), "Ćma"}

	for _, c := range candidates {
		name, err := ValidateName(c)
		if err != nil {
			continue
		}
		assert.GreaterOrEqual(t, len(name), MinNameLength)
		assert.LessOrEqual(t, len(name), MaxNameLength)
		assert.False(t, strings.HasSuffix(name, " "))
		assert.Regexp(t, `^[A-Za-z-]+$`, name)
	}
}
