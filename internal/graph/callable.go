package graph

import (
	"context"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/result"
	"github.com/vk/rdfworkflow/internal/workflow"
)

// Callable executes the graph against the head dataset of one entry range.
type Callable func(ctx context.Context, head any, rangeID int) ([]result.Handle, error)

// Callable returns a function generating, compiling and running the graph.
// Each invocation generates code from its own copy of the graph, so
// rewritten Snapshot paths stay local to the range and invocations may run
// concurrently.
func (g *Generator) Callable(exec *workflow.Executor, opts ...workflow.Option) Callable {
	return func(ctx context.Context, head any, rangeID int) ([]result.Handle, error) {
		ctx = ctxlog.With(ctx, "range_id", rangeID)

		w := workflow.New(opts...)
		if err := NewGenerator(g.Head.Clone()).Emit(ctx, w, rangeID); err != nil {
			return nil, err
		}
		return w.Execute(ctx, exec, head)
	}
}
