package localexecutor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/graph"
	"github.com/vk/rdfworkflow/internal/result"
)

// HeadFunc creates the head dataset of a range.
type HeadFunc func(r Range) (any, error)

// Executor runs a graph callable over entry ranges.
type Executor struct {
	workers int
}

// New creates an executor running at most workers ranges at a time. A
// non-positive value means one worker per range.
func New(workers int) *Executor {
	return &Executor{workers: workers}
}

// Run invokes fn once per range and returns the results indexed like
// ranges. The first failing range cancels the others and its error is
// returned.
func (e *Executor) Run(ctx context.Context, fn graph.Callable, head HeadFunc, ranges []Range) ([][]result.Handle, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting local execution.", "ranges", len(ranges), "workers", e.workers)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	out := make([][]result.Handle, len(ranges))
	for i, r := range ranges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := head(r)
			if err != nil {
				return fmt.Errorf("range %d: failed to create head dataset: %w", r.ID, err)
			}

			logger.Debug("Running range.", "range_id", r.ID, "begin", r.Begin, "end", r.End)
			res, err := fn(gctx, h, r.ID)
			if err != nil {
				return fmt.Errorf("range %d: %w", r.ID, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Local execution finished.", "ranges", len(ranges), "duration", time.Since(start))
	return out, nil
}
