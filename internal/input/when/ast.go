package when

import (
	"strconv"
)

// Expr is a parsed when-clause expression.
type Expr interface {
	String() string
	expr()
}

// TrueExpr is the constant-true expression produced by an empty clause.
type TrueExpr struct{}

// FalseExpr is the constant-false expression.
type FalseExpr struct{}

// KeyExpr tests a context key for truthiness.
type KeyExpr struct {
	Name string
}

// NotExpr negates its operand.
type NotExpr struct {
	X Expr
}

// AndExpr is true when both operands are.
type AndExpr struct {
	Left, Right Expr
}

// OrExpr is true when either operand is.
type OrExpr struct {
	Left, Right Expr
}

// EqExpr compares a context key to a literal.
type EqExpr struct {
	Name    string
	Literal Value
}

// NeqExpr is the negated comparison of a context key to a literal.
type NeqExpr struct {
	Name    string
	Literal Value
}

func (TrueExpr) expr()  {}
func (FalseExpr) expr() {}
func (KeyExpr) expr()   {}
func (NotExpr) expr()   {}
func (AndExpr) expr()   {}
func (OrExpr) expr()    {}
func (EqExpr) expr()    {}
func (NeqExpr) expr()   {}

func (TrueExpr) String() string  { return "true" }
func (FalseExpr) String() string { return "false" }
func (e KeyExpr) String() string { return e.Name }

func (e NotExpr) String() string {
	switch e.X.(type) {
	case AndExpr, OrExpr, EqExpr, NeqExpr:
		return "!(" + e.X.String() + ")"
	}
	return "!" + e.X.String()
}

func (e AndExpr) String() string {
	return group(e.Left) + " && " + group(e.Right)
}

func (e OrExpr) String() string {
	return e.Left.String() + " || " + e.Right.String()
}

func (e EqExpr) String() string {
	return e.Name + " == " + literalString(e.Literal)
}

func (e NeqExpr) String() string {
	return e.Name + " != " + literalString(e.Literal)
}

// group parenthesizes an operand of && that binds more loosely.
func group(e Expr) string {
	if _, ok := e.(OrExpr); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func literalString(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}
