package when

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind identifies a lexical token.
type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokNot
	tokAnd
	tokOr
	tokEq
	tokNeq
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokNot:
		return "'!'"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	case tokEq:
		return "'=='"
	case tokNeq:
		return "'!='"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return fmt.Sprintf("token(%d)", k)
	}
}

// token is a lexical token with its byte offset in the source.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a when-clause into tokens.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case r == '!':
			if strings.HasPrefix(src[i:], "!=") {
				toks = append(toks, token{tokNeq, "!=", i})
				i += 2
			} else {
				toks = append(toks, token{tokNot, "!", i})
				i++
			}
		case r == '&':
			if !strings.HasPrefix(src[i:], "&&") {
				return nil, newError(src, i, "unexpected '&' (did you mean '&&'?)")
			}
			toks = append(toks, token{tokAnd, "&&", i})
			i += 2
		case r == '|':
			if !strings.HasPrefix(src[i:], "||") {
				return nil, newError(src, i, "unexpected '|' (did you mean '||'?)")
			}
			toks = append(toks, token{tokOr, "||", i})
			i += 2
		case r == '=':
			if !strings.HasPrefix(src[i:], "==") {
				return nil, newError(src, i, "unexpected '=' (did you mean '=='?)")
			}
			// Tolerate JavaScript-style "===".
			n := 2
			if strings.HasPrefix(src[i:], "===") {
				n = 3
			}
			toks = append(toks, token{tokEq, "==", i})
			i += n
		case r == '\'' || r == '"':
			text, end, err := lexString(src, i, r)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, text, i})
			i = end
		case r == '-' || r == '.' || unicode.IsDigit(r):
			end := lexNumber(src, i)
			if end == i || (end == i+1 && (r == '-' || r == '.')) {
				return nil, newError(src, i, fmt.Sprintf("unexpected %q", r))
			}
			toks = append(toks, token{tokNumber, src[i:end], i})
			i = end
		case isIdentStart(r):
			end := i + size
			for end < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[end:])
				if !isIdentPart(r2) {
					break
				}
				end += s2
			}
			toks = append(toks, token{tokIdent, src[i:end], i})
			i = end
		default:
			return nil, newError(src, i, fmt.Sprintf("unexpected character %q", r))
		}
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks, nil
}

func lexString(src string, start int, quote rune) (string, int, error) {
	var sb strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			sb.WriteByte(src[i+1])
			i += 2
		case rune(c) == quote:
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, newError(src, start, "unterminated string")
}

func lexNumber(src string, start int) int {
	i := start
	if i < len(src) && src[i] == '-' {
		i++
	}
	seenDot := false
	for i < len(src) {
		c := src[i]
		switch {
		case c >= '0' && c <= '9':
			i++
		case c == '.' && !seenDot:
			seenDot = true
			i++
		default:
			return i
		}
	}
	return i
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '.' || r == ':' || r == '-'
}
