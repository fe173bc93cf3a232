// Package names normalizes raw card names and reconciles the inconsistent
// spellings used across signal vocabularies into canonical keys.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key is a canonical card identifier. Exactly one Key exists per real-world
// card; it is the join key across every signal vocabulary.
type Key string

var foldTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NFKD does not decompose ligature letters, and card names use them.
var ligatures = strings.NewReplacer(
	"Æ", "ae", "æ", "ae",
	"Œ", "oe", "œ", "oe",
	"ß", "ss",
)

// Normalize lowercases, folds Unicode to ASCII, strips punctuation and
// diacritics, and collapses whitespace. It is deterministic and total: any
// input yields some key, possibly empty.
func Normalize(raw string) Key {
	folded, _, err := transform.String(foldTransformer, ligatures.Replace(raw))
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation and symbols are dropped outright.
	}

	return Key(strings.Join(strings.Fields(b.String()), " "))
}
