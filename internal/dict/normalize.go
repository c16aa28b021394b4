package dict

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips Vietnamese diacritics without trimming,
// so every rune of the result corresponds to one rune of the input and
// matches found in the folded text can be mapped back to the original.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	// NFD does not decompose the stroked d.
	return strings.ReplaceAll(out, "đ", "d")
}

// Normalize lowercases s and strips Vietnamese diacritics so that
// "Đà Nẵng", "Da Nang" and "da nang" all compare equal.
func Normalize(s string) string {
	return strings.TrimSpace(Fold(s))
}
