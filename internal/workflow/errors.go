package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrConsumed is returned when a workflow is finalized or executed twice.
	ErrConsumed = errors.New("workflow: already consumed")
	// ErrResultMismatch is returned when the generated entry point returns a
	// result collection whose length differs from the number of booked results.
	ErrResultMismatch = errors.New("workflow: result count mismatch")
)

// ArgumentRenderingError is returned when an operation argument has a type
// that has no literal form in generated code.
type ArgumentRenderingError struct {
	Operation string
	Index     int
	Value     any
}

func (e *ArgumentRenderingError) Error() string {
	return fmt.Sprintf("cannot render argument %d of %s: unsupported literal type %T", e.Index, e.Operation, e.Value)
}
