// Package textfold provides accent-insensitive text folding for fuzzy name
// matching. This is part of the platform layer and contains no business logic.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Stroked letters do not decompose into base letter + combining mark,
// so NFD stripping alone leaves them untouched.
var strokeReplacer = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
)

// Fold lowercases the input, strips diacritics, and collapses runs of
// whitespace to single spaces. Unmappable input passes through unchanged.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strokeReplacer.Replace(folded)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Contains reports whether the folded form of s contains the folded form of
// substr.
func Contains(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
