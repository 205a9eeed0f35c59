package businessfields

import (
	"strings"
	"unicode"
)

// sanitizeText strips markup tags and control characters from a submitted
// value and collapses runs of whitespace, matching what the legacy checkout
// stored for these fields.
func sanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
			// skip tag contents
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
