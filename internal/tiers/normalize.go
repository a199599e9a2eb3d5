package tiers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeName reduces a player name to its identity key: diacritics
// stripped, any remaining non-ASCII runes dropped, whitespace collapsed
// to single spaces. "Luka Dončić" and "Luka  Doncic" map to the same
// key, which is what makes injury reports match tier tables across
// providers with different spelling conventions.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(deaccent, name)
	if err != nil {
		stripped = name
	}
	var b strings.Builder
	for _, r := range stripped {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
