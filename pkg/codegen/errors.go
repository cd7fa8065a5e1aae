package codegen

import (
	"errors"
	"fmt"
)

// Error kinds. Every lowering failure wraps exactly one of these and is
// fatal for the whole translation unit.
var (
	ErrRedeclaration        = errors.New("redeclaration")
	ErrUndeclaredVariable   = errors.New("use of undeclared variable")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrStructural           = errors.New("malformed node")
)

// Error describes why a function could not be lowered
type Error struct {
	Kind     error  // one of the Err* kinds above
	Function string // enclosing function, empty at program level
	Detail   string
}

func (e *Error) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Function, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
