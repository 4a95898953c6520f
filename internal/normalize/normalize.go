// ABOUTME: Name normalization used as the equality key for exercise and category names.
// ABOUTME: Trims, strips diacritics, and case-folds using golang.org/x/text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name returns the comparison key for a user-entered name.
// "  Triceps " and "TRICEPS" produce the same key, as do "Café" and "cafe".
func Name(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	// Transformers carry state, so build a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, trimmed)
	if err != nil {
		stripped = trimmed
	}

	return cases.Fold().String(stripped)
}

// Equal reports whether two names normalize to the same key.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}
