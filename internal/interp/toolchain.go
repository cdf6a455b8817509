package interp

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/operation"
	"github.com/vk/rdfworkflow/internal/toolchain"
)

// Toolchain compiles generated units in-process.
type Toolchain struct {
	catalog *operation.Catalog
}

var _ toolchain.Toolchain = (*Toolchain)(nil)

// New creates a toolchain validating operations against catalog. A nil
// catalog selects operation.DefaultCatalog.
func New(catalog *operation.Catalog) *Toolchain {
	if catalog == nil {
		catalog = operation.DefaultCatalog()
	}
	return &Toolchain{catalog: catalog}
}

// Compile parses and links the unit at path.
func (t *Toolchain) Compile(ctx context.Context, path string) (toolchain.Library, error) {
	lib, err := t.link(ctx, path)
	if err != nil {
		return nil, &toolchain.CompilationError{File: path, Err: err}
	}
	return lib, nil
}

// Load links a unit accepted by an earlier Compile. Units only exist as
// source, so loading parses them again.
func (t *Toolchain) Load(ctx context.Context, path string) (toolchain.Library, error) {
	lib, err := t.link(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", path, err)
	}
	return lib, nil
}

func (t *Toolchain) link(ctx context.Context, path string) (toolchain.Library, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := t.compileSource(path, string(src))
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Unit linked in-process.", "path", path, "symbol", prog.symbol, "statements", len(prog.stmts))
	return toolchain.Symbols{prog.symbol: prog.run}, nil
}

func (t *Toolchain) compileSource(filename, src string) (*program, error) {
	toks, err := tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return newParser(toks, t.catalog).parseUnit()
}
