package when

import (
	"errors"
	"fmt"
)

// Result is the outcome of validating a when-clause.
type Result struct {
	IsValid bool
	Error   string
}

// Validate checks a clause for syntax errors. It never panics.
func Validate(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Error: "internal parser error"}
		}
	}()

	if _, err := Parse(text); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return Result{Error: fmt.Sprintf("%s at position %d", pe.Message, pe.Pos)}
		}
		return Result{Error: err.Error()}
	}
	return Result{IsValid: true}
}
