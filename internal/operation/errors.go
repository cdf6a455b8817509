package operation

import "fmt"

// UnknownOperationError is returned when a graph refers to an operation name
// that is not registered in the catalog.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// ArityError is returned when an operation is created with an argument count
// outside of the range its catalog entry allows.
type ArityError struct {
	Name     string
	Got      int
	Min, Max int
}

func (e *ArityError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("operation %q takes %d argument(s), got %d", e.Name, e.Min, e.Got)
	}
	return fmt.Sprintf("operation %q takes %d to %d arguments, got %d", e.Name, e.Min, e.Max, e.Got)
}
