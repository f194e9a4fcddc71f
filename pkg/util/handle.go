package util

import (
	"strings"
	"unicode"
)

// ToHandle converts a title into a URL-safe handle: lowercase,
// alphanumeric runs joined by single hyphens.
func ToHandle(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
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
	return strings.Trim(b.String(), "-")
}
