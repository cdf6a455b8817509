// Package toolchain defines how generated units are turned into callable
// entry points.
//
// A Toolchain compiles the unit stored at a path and loads it into the
// running process, returning a Library. A unit compiled earlier is loaded
// again with Load, which never runs the compiler. Library symbols are looked up by
// their qualified name and invoked with the handle of the head dataset.
package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/rdfworkflow/internal/result"
)

// ErrSymbolNotFound is returned by Library.Lookup for unknown symbols.
var ErrSymbolNotFound = errors.New("toolchain: symbol not found")

// EntryPoint is a loaded generated function. dataset is the handle of the
// head dataset the function receives by reference.
type EntryPoint func(ctx context.Context, dataset any) ([]result.Handle, error)

// Library is a compiled and loaded unit.
type Library interface {
	Lookup(symbol string) (EntryPoint, error)
}

// Toolchain turns generated units into libraries.
type Toolchain interface {
	// Compile builds the unit stored at path and loads it.
	Compile(ctx context.Context, path string) (Library, error)
	// Load loads a unit that an earlier Compile accepted.
	Load(ctx context.Context, path string) (Library, error)
}

// CompilationError is returned when the toolchain rejects a generated unit.
// The unit is left on disk for inspection.
type CompilationError struct {
	// File is the path of the rejected unit.
	File string
	// Output holds diagnostics produced by the compiler, if any.
	Output string
	Err    error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("error compiling the generated workflow file %s", e.File)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *CompilationError) Unwrap() error { return e.Err }

// Symbols is a Library backed by a fixed symbol table.
type Symbols map[string]EntryPoint

// Lookup returns the entry point registered under symbol.
func (s Symbols) Lookup(symbol string) (EntryPoint, error) {
	fn, ok := s[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return fn, nil
}
