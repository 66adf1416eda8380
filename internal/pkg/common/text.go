package common

import (
	"html"
	"strings"
	"unicode"
)

// Slugify normalizes a name into a URL-safe slug: lowercase, non-alphanumeric
// runs collapsed into single hyphens, no leading or trailing hyphens.
// Ingredient registry lookups and term reuse both key on this form.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SanitizeField escapes HTML special characters in a free-text field and
// trims surrounding whitespace. Imported recipe fields pass through here
// before being stored.
func SanitizeField(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
