package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/graph"
	"github.com/vk/rdfworkflow/internal/interp"
	"github.com/vk/rdfworkflow/internal/localexecutor"
	"github.com/vk/rdfworkflow/internal/rdf"
	"github.com/vk/rdfworkflow/internal/result"
	"github.com/vk/rdfworkflow/internal/toolchain"
	"github.com/vk/rdfworkflow/internal/unitstore"
	"github.com/vk/rdfworkflow/internal/workflow"
)

// Run loads the graph, executes it over every entry range and writes one
// line per result to the output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	start := time.Now()

	head, err := a.loader.Load(ctx, a.config.GraphPaths...)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	gen := graph.NewGenerator(head)
	actions, err := gen.ActionNodes()
	if err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	if len(actions) == 0 {
		a.logger.Warn("Graph has no actions, the generated code will not run the event loop.")
	}
	a.logger.Info("Graph loaded.", "actions", len(actions))

	src, err := a.source(ctx)
	if err != nil {
		return err
	}

	store, err := unitstore.Open(a.config.WorkDir)
	if err != nil {
		return err
	}
	defer store.Close()

	tc, err := a.toolchain()
	if err != nil {
		return err
	}
	exec := workflow.NewExecutor(store, tc, workflow.WithLibraryCache(a.libs))

	ranges, err := localexecutor.Ranges(src.Entries(), a.config.Ranges)
	if err != nil {
		return err
	}
	headFn := func(r localexecutor.Range) (any, error) {
		slice, err := src.Slice(r.Begin, r.End)
		if err != nil {
			return nil, err
		}
		return rdf.NewDataFrame(slice), nil
	}

	a.logger.Info("🚀 Starting execution.", "entries", src.Entries(), "ranges", len(ranges))
	results, err := localexecutor.New(a.config.Workers).Run(ctx, gen.Callable(exec), headFn, ranges)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if err := a.report(ctx, ranges, results); err != nil {
		return err
	}

	a.logger.Info("🏁 Execution finished.", "duration", time.Since(start))
	return nil
}

// source opens the input dataset.
func (a *App) source(ctx context.Context) (*rdf.Source, error) {
	if a.config.InputPath == "" {
		return rdf.NewRange(a.config.Entries)
	}
	src, tree, err := rdf.ReadSnapshot(a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Input dataset opened.", "path", a.config.InputPath, "tree", tree, "entries", src.Entries())
	return src, nil
}

// toolchain returns the in-process toolchain, behind the external compiler
// command when one is configured.
func (a *App) toolchain() (toolchain.Toolchain, error) {
	tc := interp.New(a.catalog)
	if a.config.Compiler == "" {
		return tc, nil
	}
	return toolchain.NewCommand(strings.Fields(a.config.Compiler), tc)
}

// report writes the results of every range in range order.
func (a *App) report(ctx context.Context, ranges []localexecutor.Range, results [][]result.Handle) error {
	for i, r := range ranges {
		for j, h := range results[i] {
			v, err := h.Get(ctx)
			if err != nil {
				return fmt.Errorf("range %d: result %d: %w", r.ID, j, err)
			}
			fmt.Fprintf(a.outW, "range=%d entries=[%d,%d) result=%d kind=%s value=%v\n", r.ID, r.Begin, r.End, j, h.Kind(), v)
		}
	}
	return nil
}
