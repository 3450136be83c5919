package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a Go identifier to snake_case, keeping initialisms
// together (IsHTML -> is_html, HTTPServer -> http_server).
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteRune('_')
			case unicode.IsUpper(prev) && nextIsLower:
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
