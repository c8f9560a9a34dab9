package when

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is matched by every when-clause parse error.
var ErrSyntax = errors.New("when clause syntax error")

// ParseError describes the first syntax error in a when-clause.
type ParseError struct {
	// Clause is the full source text.
	Clause string

	// Pos is the byte offset of the error.
	Pos int

	// Message describes the problem.
	Message string
}

func newError(src string, pos int, msg string) *ParseError {
	return &ParseError{Clause: src, Pos: pos, Message: msg}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Message, e.Pos, e.Clause)
}

// Is matches ErrSyntax.
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

// Hint renders the clause with a caret under the error position.
func (e *ParseError) Hint() string {
	return e.Clause + "\n" + strings.Repeat(" ", e.Pos) + "^"
}

// Parse parses a when-clause into an expression tree.
// Empty or whitespace-only text parses to TrueExpr.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return TrueExpr{}, nil
	}

	toks, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{src: text, toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}
	return e, nil
}

// MustParse parses a clause and panics on error.
// Use only for known-valid clauses in initialization code.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic("invalid when clause: " + err.Error())
	}
	return e
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok token) error {
	if tok.kind == tokEOF {
		return newError(p.src, tok.pos, "unexpected end of input")
	}
	return newError(p.src, tok.pos, fmt.Sprintf("unexpected %s %q", tok.kind, tok.text))
}

// or := and ( '||' and )*
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = OrExpr{Left: left, Right: right}
	}
	return left, nil
}

// and := unary ( '&&' unary )*
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = AndExpr{Left: left, Right: right}
	}
	return left, nil
}

// unary := '!' unary | '(' or ')' | cmp
func (p *parser) parseUnary() (Expr, error) {
	switch tok := p.peek(); tok.kind {
	case tokNot:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NotExpr{X: x}, nil
	case tokLParen:
		p.next()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			if closing.kind == tokEOF {
				return nil, newError(p.src, tok.pos, "unclosed '('")
			}
			return nil, p.unexpected(closing)
		}
		return x, nil
	default:
		return p.parseCmp()
	}
}

// cmp := IDENT ( ('==' | '!=') literal )?
func (p *parser) parseCmp() (Expr, error) {
	tok := p.next()
	if tok.kind != tokIdent {
		if tok.kind == tokEOF {
			return nil, newError(p.src, tok.pos, "expected context key, got end of input")
		}
		return nil, newError(p.src, tok.pos, fmt.Sprintf("expected context key, got %s %q", tok.kind, tok.text))
	}

	op := p.peek().kind
	if op != tokEq && op != tokNeq {
		switch tok.text {
		case "true":
			return TrueExpr{}, nil
		case "false":
			return FalseExpr{}, nil
		}
		return KeyExpr{Name: tok.text}, nil
	}
	p.next()

	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if op == tokEq {
		return EqExpr{Name: tok.text, Literal: lit}, nil
	}
	return NeqExpr{Name: tok.text, Literal: lit}, nil
}

// literal := STRING | NUMBER | 'true' | 'false' | WORD
func (p *parser) parseLiteral() (Value, error) {
	tok := p.next()
	switch tok.kind {
	case tokString:
		return String(tok.text), nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, newError(p.src, tok.pos, fmt.Sprintf("invalid number %q", tok.text))
		}
		return Number(n), nil
	case tokIdent:
		switch tok.text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return String(tok.text), nil
	case tokEOF:
		return nil, newError(p.src, tok.pos, "expected value after comparison, got end of input")
	default:
		return nil, newError(p.src, tok.pos, fmt.Sprintf("expected value after comparison, got %s %q", tok.kind, tok.text))
	}
}
