// Package encoding provides text normalization for unit names.
package encoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName maps a display name to a key for loose comparison: diacritics
// are removed, case is folded and runs of whitespace become one space.
// Returns the trimmed input if folding fails.
func FoldName(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		cases.Fold(),
	)
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return CollapseSpaces(result)
}

// CollapseSpaces trims s and replaces every run of whitespace with a single
// space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
