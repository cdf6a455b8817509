package workflow

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/vk/rdfworkflow/internal/nodeid"
	"github.com/vk/rdfworkflow/internal/operation"
	"github.com/vk/rdfworkflow/internal/result"
)

// Headers every generated unit includes.
var defaultIncludes = []string{
	`#include "ROOT/RDataFrame.hxx"`,
	`#include "ROOT/RResultHandle.hxx"`,
}

// Workflow accumulates the generated code of one graph snapshot.
type Workflow struct {
	includes []string
	lambdas  []string
	nodes    []string

	// nodeID is the index the next transformation is assigned.
	nodeID int
	// resPtrID is the index the next action result is assigned.
	resPtrID int
	// lambdaID is the index the next helper closure is assigned.
	lambdaID int

	// snapshots maps a result index to the output path its Snapshot
	// writes to.
	snapshots map[int]string
	// snapshotSources keeps the output path a Snapshot operation carried
	// before its first rewrite, so that an operation registered again
	// derives its path from the original.
	snapshotSources map[operation.Operation]string

	pid      int
	consumed bool
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithProcessID overrides the process identifier embedded in the generated
// file name. It defaults to the identifier of the running process.
func WithProcessID(pid int) Option {
	return func(w *Workflow) { w.pid = pid }
}

// New creates an empty workflow.
func New(opts ...Option) *Workflow {
	w := &Workflow{
		includes:        append([]string(nil), defaultIncludes...),
		nodeID:          nodeid.Head + 1,
		snapshots:       make(map[int]string),
		snapshotSources: make(map[operation.Operation]string),
		pid:             os.Getpid(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddInclude adds a header directive. Directives already present are
// ignored.
func (w *Workflow) AddInclude(header string) {
	for _, inc := range w.includes {
		if inc == header {
			return
		}
	}
	w.includes = append(w.includes, header)
}

// AddLambda defines a helper closure and returns a reference that can be
// passed as an operation argument.
func (w *Workflow) AddLambda(code string) operation.Ref {
	id := nodeid.LambdaID(w.lambdaID)
	w.lambdaID++
	w.lambdas = append(w.lambdas, fmt.Sprintf("auto %s = %s;", id, code))
	return operation.Ref(id.String())
}

// AddNode appends the statement for op, applied to the dataset identified by
// parentID.
//
// Transformations define a new dataset and return its identifier. Actions
// and instant actions book a result and return parentID, so that a result
// never becomes the parent of another node. Snapshot output paths are
// rewritten in place to carry the range identifier; a Snapshot registered
// again keeps the path derived from its original argument.
//
// On error nothing is recorded and op is left untouched.
func (w *Workflow) AddNode(op operation.Operation, rangeID, parentID int) (int, error) {
	args := op.Args()

	var source, outPath string
	isSnapshot := op.Name() == SnapshotOperation
	if isSnapshot {
		var err error
		if source, err = w.snapshotSource(op); err != nil {
			return 0, err
		}
		outPath = rangeOutputPath(source, rangeID)
		args = append([]any(nil), args...)
		args[snapshotPathArg] = outPath
	}

	rendered, err := renderArgs(op.Name(), args)
	if err != nil {
		return 0, err
	}
	parent := nodeid.DatasetID(parentID)

	if op.IsTransformation() {
		id := nodeid.DatasetID(w.nodeID)
		w.nodes = append(w.nodes, fmt.Sprintf("auto %s = %s.%s(%s);", id, parent, op.Name(), rendered))
		w.nodeID++
		return id.Index, nil
	}
	if !op.IsAction() && !op.IsInstantAction() {
		return 0, fmt.Errorf("operation %s has unsupported kind %s", op.Name(), op.Kind())
	}

	res := nodeid.ResultID(w.resPtrID)
	if isSnapshot {
		if reflect.TypeOf(op).Comparable() {
			w.snapshotSources[op] = source
		}
		op.SetArg(snapshotPathArg, outPath)
		w.snapshots[res.Index] = outPath
	}
	w.nodes = append(w.nodes,
		fmt.Sprintf("auto %s = %s.%s(%s);", res, parent, op.Name(), rendered),
		fmt.Sprintf("result_ptrs.emplace_back(%s);", res),
	)
	w.resPtrID++
	return parentID, nil
}

// ResultCount returns the number of results booked so far.
func (w *Workflow) ResultCount() int { return w.resPtrID }

// Snapshots returns a copy of the result index to output path mapping.
func (w *Workflow) Snapshots() map[int]string {
	out := make(map[int]string, len(w.snapshots))
	for k, v := range w.snapshots {
		out[k] = v
	}
	return out
}

// String returns the source code the workflow currently generates.
func (w *Workflow) String() string {
	return w.source()
}

// Finalize produces the generated unit and consumes the workflow.
func (w *Workflow) Finalize() (*Unit, error) {
	if w.consumed {
		return nil, ErrConsumed
	}
	w.consumed = true
	return newUnit(w.source(), w.pid, w.resPtrID, w.Snapshots()), nil
}

// Execute finalizes the workflow and runs it on dataset, the handle of the
// head dataset. A workflow can be executed only once.
func (w *Workflow) Execute(ctx context.Context, exec *Executor, dataset any) ([]result.Handle, error) {
	unit, err := w.Finalize()
	if err != nil {
		return nil, err
	}
	return exec.Run(ctx, unit, dataset)
}
