package ddl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokWord   tokenKind = iota // bare identifier, keyword or number
	tokQuoted                  // "ident", `ident` or [ident]
	tokString                  // 'literal'
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
)

type token struct {
	kind tokenKind
	text string
	// pos and end delimit the token in the source.
	pos, end int
	// spaced is true when whitespace or a comment precedes the token.
	spaced bool
}

// is reports whether the token is the bare keyword kw, case-insensitively.
func (t token) is(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

// lex splits src into tokens. Comments are dropped. Unterminated quotes and
// block comments are reported as a ParseError.
func lex(src string) ([]token, error) {
	var (
		tokens []token
		spaced bool
	)

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(r):
			spaced = true
			i += size

			continue

		case strings.HasPrefix(src[i:], "--"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				i = len(src)
			} else {
				i += nl + 1
			}

			spaced = true

			continue

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, errorf(i, "unterminated block comment")
			}

			i += 2 + end + 2
			spaced = true

			continue
		}

		start := i

		var kind tokenKind

		switch r {
		case '(':
			kind, i = tokLParen, i+1
		case ')':
			kind, i = tokRParen, i+1
		case ',':
			kind, i = tokComma, i+1
		case ';':
			kind, i = tokSemicolon, i+1
		case '\'':
			end, ok := scanQuoted(src, i, '\'')
			if !ok {
				return nil, errorf(start, "unterminated string literal")
			}

			kind, i = tokString, end
		case '"', '`':
			end, ok := scanQuoted(src, i, byte(r))
			if !ok {
				return nil, errorf(start, "unterminated quoted identifier")
			}

			kind, i = tokQuoted, end
		case '[':
			end := strings.IndexByte(src[i:], ']')
			if end < 0 {
				return nil, errorf(start, "unterminated bracketed identifier")
			}

			kind, i = tokQuoted, i+end+1
		default:
			kind, i = tokWord, scanWord(src, i)
		}

		tokens = append(tokens, token{
			kind:   kind,
			text:   src[start:i],
			pos:    start,
			end:    i,
			spaced: spaced,
		})
		spaced = false
	}

	return tokens, nil
}

// scanQuoted returns the offset just past the closing quote. A doubled quote
// inside the literal is an escaped quote.
func scanQuoted(src string, start int, quote byte) (int, bool) {
	for i := start + 1; i < len(src); i++ {
		if src[i] != quote {
			continue
		}

		if i+1 < len(src) && src[i+1] == quote {
			i++

			continue
		}

		return i + 1, true
	}

	return 0, false
}

func scanWord(src string, start int) int {
	i := start
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if unicode.IsSpace(r) || strings.ContainsRune("(),;'\"`[", r) {
			break
		}

		if i > start && (strings.HasPrefix(src[i:], "--") || strings.HasPrefix(src[i:], "/*")) {
			break
		}

		i += size
	}

	return i
}

// unquote strips surrounding backticks, brackets and double quotes.
func unquote(s string) string {
	return strings.Trim(s, "`[]\"")
}
