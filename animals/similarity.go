package animals

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the minimum similarity for a fuzzy search hit.
const DefaultThreshold = 0.6

// Similarity returns 2*M/T for a and b, where M is the total size of the
// matching blocks found by a SequenceMatcher and T the summed length of both
// strings. Two empty strings are identical (1.0).
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

func splitChars(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "")
}
