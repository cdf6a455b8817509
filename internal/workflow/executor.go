package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/libcache"
	"github.com/vk/rdfworkflow/internal/result"
	"github.com/vk/rdfworkflow/internal/toolchain"
	"github.com/vk/rdfworkflow/internal/unitstore"
)

// Executor compiles generated units and runs them.
type Executor struct {
	store     *unitstore.Store
	toolchain toolchain.Toolchain
	libs      *libcache.Cache
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLibraryCache replaces the process-wide library cache.
func WithLibraryCache(c *libcache.Cache) ExecutorOption {
	return func(e *Executor) { e.libs = c }
}

// NewExecutor creates an executor writing units to store and compiling
// them with tc.
func NewExecutor(store *unitstore.Store, tc toolchain.Toolchain, opts ...ExecutorOption) *Executor {
	e := &Executor{store: store, toolchain: tc, libs: libcache.Default}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run makes sure unit is compiled and loaded, invokes its entry point with
// dataset and returns one handle per booked result, in booking order.
// Results of Snapshot operations are replaced by artifact handles carrying
// the output path.
//
// Errors raised by the entry point are returned unchanged.
func (e *Executor) Run(ctx context.Context, unit *Unit, dataset any) ([]result.Handle, error) {
	ctx = ctxlog.With(ctx, "unit", unit.FileName)
	logger := ctxlog.FromContext(ctx)

	lib, hit, err := e.libs.Load(ctx, unit.FileName, func(ctx context.Context) (toolchain.Library, error) {
		return e.compile(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		logger.Debug("Generated unit already loaded.")
	}

	entry, err := lib.Lookup(EntryPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s in %s: %w", EntryPoint, unit.FileName, err)
	}

	logger.Debug("Running generated entry point.", "results", unit.ResultCount)
	results, err := entry(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if len(results) != unit.ResultCount {
		return nil, fmt.Errorf("%w: %s returned %d results, %d booked", ErrResultMismatch, unit.FileName, len(results), unit.ResultCount)
	}

	for i, path := range unit.Snapshots {
		results[i] = result.NewArtifact(path)
	}
	return results, nil
}

// compile writes and compiles unit unless an identical unit is already on
// disk, in which case the existing file is loaded without compiling it.
func (e *Executor) compile(ctx context.Context, unit *Unit) (toolchain.Library, error) {
	logger := ctxlog.FromContext(ctx)
	path := e.store.Path(unit.FileName)

	reserved, err := e.store.Reserve(unit.FileName, unit.Hash)
	if err != nil {
		return nil, err
	}
	if !reserved {
		logger.Debug("Generated unit found on disk, skipping compilation.", "path", path)
		return e.toolchain.Load(ctx, path)
	}

	if err := e.store.Write(unit.FileName, unit.Source); err != nil {
		return nil, err
	}

	logger.Debug("Compiling generated unit.", "path", path)
	lib, err := e.toolchain.Compile(ctx, path)
	if err != nil {
		var compErr *toolchain.CompilationError
		if !errors.As(err, &compErr) {
			compErr = &toolchain.CompilationError{File: path, Err: err}
		}
		if markErr := e.store.MarkFailed(unit.FileName, compErr); markErr != nil {
			logger.Warn("Failed to record compilation failure.", "error", markErr)
		}
		return nil, compErr
	}

	if err := e.store.MarkCompiled(unit.FileName); err != nil {
		return nil, err
	}
	logger.Debug("Generated unit compiled.", "path", path)
	return lib, nil
}
