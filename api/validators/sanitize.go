package validators

import (
	"strings"
	"unicode"
)

// MaxSearchRunes caps the catalog search term.
const MaxSearchRunes = 200

// SearchTerm normalises the ?search= value for title matching: control
// characters are dropped, runs of whitespace collapse to one space, and the
// result is cut to MaxSearchRunes without splitting a multi-byte character.
func SearchTerm(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw)
	term := strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(term)
	if len(runes) > MaxSearchRunes {
		term = strings.TrimSpace(string(runes[:MaxSearchRunes]))
	}
	return term
}
