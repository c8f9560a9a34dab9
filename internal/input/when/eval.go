package when

import (
	"strconv"
	"strings"
)

// Evaluate evaluates an expression against a context.
// Missing keys are falsy; a nil expression or nil context evaluates as if
// empty. Evaluation is pure and short-circuits.
func Evaluate(e Expr, ctx Context) bool {
	if ctx == nil {
		ctx = Empty
	}
	switch x := e.(type) {
	case nil, TrueExpr:
		return true
	case FalseExpr:
		return false
	case KeyExpr:
		v, ok := ctx.Get(x.Name)
		return ok && v != nil && v.Truthy()
	case NotExpr:
		return !Evaluate(x.X, ctx)
	case AndExpr:
		return Evaluate(x.Left, ctx) && Evaluate(x.Right, ctx)
	case OrExpr:
		return Evaluate(x.Left, ctx) || Evaluate(x.Right, ctx)
	case EqExpr:
		v, ok := ctx.Get(x.Name)
		return ok && v != nil && looseEqual(v, x.Literal)
	case NeqExpr:
		v, ok := ctx.Get(x.Name)
		return !ok || v == nil || !looseEqual(v, x.Literal)
	default:
		return false
	}
}

// looseEqual compares a literal to a context value, coercing the literal to
// the context value's type. Literals that cannot be coerced are unequal.
func looseEqual(ctxVal, lit Value) bool {
	switch cv := ctxVal.(type) {
	case Bool:
		b, ok := asBool(lit)
		return ok && b == bool(cv)
	case String:
		return string(cv) == lit.String()
	case Number:
		n, ok := asNumber(lit)
		return ok && n == float64(cv)
	default:
		return false
	}
}

func asBool(v Value) (bool, bool) {
	switch x := v.(type) {
	case Bool:
		return bool(x), true
	case Number:
		return x != 0, true
	case String:
		switch strings.ToLower(string(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func asNumber(v Value) (float64, bool) {
	switch x := v.(type) {
	case Number:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case String:
		n, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// EvaluateString parses and evaluates a clause in one step. An unparsable
// clause evaluates to false.
func EvaluateString(text string, ctx Context) bool {
	e, err := Parse(text)
	if err != nil {
		return false
	}
	return Evaluate(e, ctx)
}
