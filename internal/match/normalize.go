package match

import (
	"strings"
)

// Normalize converts an identifier into the snake_case form used for comparison.
// The normalization pipeline:
// 1. Insert "_" before every ASCII uppercase letter that is not the first
// character and does not already follow a separator.
// 2. Case-fold to lower.
// 3. Replace "-" and " " with "_".
//
// Other punctuation is left alone. Acronym runs are not grouped, so
// "HTTPServer" becomes "h_t_t_p_server".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder

	b.Grow(len(s) + 4)

	var prev rune

	for i, r := range s {
		if i > 0 && isUpperASCII(r) && !isSeparator(prev) {
			b.WriteByte('_')
		}

		b.WriteRune(r)

		prev = r
	}

	lowered := strings.ToLower(b.String())

	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}

		return r
	}, lowered)
}

// NormalizeAll normalizes every identifier, preserving order.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}

	return out
}

// Tokens splits an identifier into its normalized, non-empty parts.
// Examples:
//   - "JoinDate" -> ["join", "date"]
//   - "email-address" -> ["email", "address"]
func Tokens(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return r == '_'
	})
}

func isUpperASCII(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
