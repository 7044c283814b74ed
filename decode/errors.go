package decode

import (
	"fmt"

	"github.com/viant/typedjson/token"
)

// UnknownFieldError reports an object key that matches no field of the
// target type under ErrorOnUnknown.
type UnknownFieldError struct {
	Field  string
	Type   string
	Offset int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q for %s at %d", e.Field, e.Type, e.Offset)
}

// TypeMismatchError reports a token kind fundamentally incompatible with the
// shape expected at the current position.
type TypeMismatchError struct {
	Expected string
	Actual   token.Kind
	Offset   int
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s at %d", e.Expected, e.Actual, e.Offset)
}
