// Package slug derives URL slugs for works. A slug is built once from the
// title and the external provider id and never changes afterwards; the id
// suffix keeps slugs unique even for identically titled works.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Make builds a slug from a title and an external id, e.g.
// ("Squid Game", 93405) → "squid-game-93405". Hangul is kept as-is so
// Korean titles stay readable; everything that is not a letter, digit,
// space, or dash is dropped.
func Make(title string, externalID int64) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}

	out := collapseDashes(b.String())
	out = strings.Trim(out, "-")
	if out == "" {
		out = fmt.Sprintf("work-%d", externalID)
		return out
	}
	return fmt.Sprintf("%s-%d", out, externalID)
}

func collapseDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
