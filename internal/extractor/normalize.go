package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFolder builds the accent-stripping transformer. Chains carry internal
// buffers, so a fresh one is built per Extract call instead of being shared
// across goroutines.
func newFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// normalizeWith lower-cases, strips diacritics and collapses whitespace.
// "Robe de Mariée " and "robe de mariee" normalize to the same string.
func normalizeWith(folder transform.Transformer, s string) string {
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
