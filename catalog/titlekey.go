package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes accented characters and drops the combining
// marks, so "Campeón" and "Campeon" collapse to the same key.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// TitleKey derives the stable join key for a display title: lowercase,
// whitespace collapsed, diacritics folded, everything outside
// [a-z0-9 ] stripped. Every metric source joins on this key, so it has
// to be identical across runs and across catalogs that spell the same
// title slightly differently.
func TitleKey(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.Join(strings.Fields(t), " ")

	if folded, _, err := transform.String(foldMarks, t); err == nil {
		t = folded
	}

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
