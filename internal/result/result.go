// Package result defines the type-erased handle returned for every action of a
// compiled graph.
//
// Actions produce values of different static types (counts, sums,
// histograms, column samples). A Handle erases that type so that all results
// fit one ordered collection, and As recovers it at the call site. A handle is
// either Native, wrapping a lazily evaluated runtime value, or Artifact,
// carrying the path of a file written as a side effect (Snapshot).
package result

import (
	"context"
	"errors"
	"fmt"
)

// Kind discriminates the two handle variants.
type Kind int

const (
	// Native handles wrap a runtime value.
	Native Kind = iota
	// Artifact handles carry an output file path.
	Artifact
)

func (k Kind) String() string {
	if k == Artifact {
		return "artifact"
	}
	return "native"
}

// ErrEmpty is returned when reading a zero Handle.
var ErrEmpty = errors.New("result: empty handle")

// Value is a lazily evaluated result produced by the runtime. Get may trigger
// the event loop of the graph the value belongs to.
type Value interface {
	Get(ctx context.Context) (any, error)
}

// ValueFunc adapts a function to the Value interface.
type ValueFunc func(ctx context.Context) (any, error)

// Get calls f(ctx).
func (f ValueFunc) Get(ctx context.Context) (any, error) { return f(ctx) }

// Handle is a discriminated, type-erased result.
type Handle struct {
	kind  Kind
	value Value
	path  string
}

// NewNative wraps a runtime value.
func NewNative(v Value) Handle {
	return Handle{kind: Native, value: v}
}

// NewArtifact wraps an output file path.
func NewArtifact(path string) Handle {
	return Handle{kind: Artifact, path: path}
}

// Kind returns the variant of the handle.
func (h Handle) Kind() Kind { return h.kind }

// Path returns the artifact path and true for Artifact handles.
func (h Handle) Path() (string, bool) {
	if h.kind != Artifact {
		return "", false
	}
	return h.path, true
}

// Get returns the erased value: the runtime value for Native handles, the
// path string for Artifact handles.
func (h Handle) Get(ctx context.Context) (any, error) {
	if h.kind == Artifact {
		return h.path, nil
	}
	if h.value == nil {
		return nil, ErrEmpty
	}
	return h.value.Get(ctx)
}

func (h Handle) String() string {
	if h.kind == Artifact {
		return fmt.Sprintf("artifact(%s)", h.path)
	}
	return "native"
}

// TypeError is returned by As when the handle holds a value of another type.
type TypeError struct {
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("result: cannot unwrap %s as %s", e.Got, e.Want)
}

// As unwraps the handle as a T.
func As[T any](ctx context.Context, h Handle) (T, error) {
	var zero T
	v, err := h.Get(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeError{Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("%T", v)}
	}
	return typed, nil
}
