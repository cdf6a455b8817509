package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/operation"
)

// recorder is an Emitter that mimics the identifier rules of the code
// generator and records every call.
type recorder struct {
	calls  []string
	nextID int
	failOn string
}

func (r *recorder) AddNode(op operation.Operation, rangeID, parentID int) (int, error) {
	if op.Name() == r.failOn {
		return 0, errors.New("boom")
	}
	r.calls = append(r.calls, fmt.Sprintf("%s<-%d", op.Name(), parentID))
	if op.IsTransformation() {
		r.nextID++
		return r.nextID, nil
	}
	return parentID, nil
}

var catalog = operation.DefaultCatalog()

func op(name string, args ...any) operation.Operation {
	return catalog.MustNew(name, args...)
}

func siblingGraph() *Node {
	head := NewHead()
	head.Then(op("Filter", "x>0")).Then(op("Count"))
	head.Then(op("Filter", "y>0")).Then(op("Sum", "y"))
	return head
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Operation.Name()
	}
	return out
}

func TestActionNodes(t *testing.T) {
	testCases := []struct {
		name  string
		build func() *Node
		want  []string
	}{
		{
			name:  "head only",
			build: NewHead,
			want:  []string{},
		},
		{
			name: "single chain",
			build: func() *Node {
				head := NewHead()
				head.Then(op("Filter", "x>0")).Then(op("Histo1D", "x"))
				return head
			},
			want: []string{"Histo1D"},
		},
		{
			name:  "siblings in pre-order",
			build: siblingGraph,
			want:  []string{"Count", "Sum"},
		},
		{
			name: "actions interleaved with transformations",
			build: func() *Node {
				head := NewHead()
				f := head.Then(op("Filter", "x>0"))
				f.Then(op("Count"))
				f.Then(op("Define", "y", "x*2")).Then(op("Snapshot", "t", "out.root"))
				head.Then(op("Mean", "x"))
				return head
			},
			want: []string{"Count", "Snapshot", "Mean"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := NewGenerator(tc.build()).ActionNodes()
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(nodes))
		})
	}
}

func TestEmit_Order(t *testing.T) {
	rec := &recorder{}

	err := NewGenerator(siblingGraph()).Emit(context.Background(), rec, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"Filter<-0", "Count<-1", "Filter<-0", "Sum<-2"}, rec.calls)
}

func TestEmit_ActionChildrenGetParentID(t *testing.T) {
	head := NewHead()
	f := head.Then(op("Filter", "x>0"))
	f.Then(op("Count")).Then(op("Sum", "x"))
	rec := &recorder{}

	err := NewGenerator(head).Emit(context.Background(), rec, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"Filter<-0", "Count<-1", "Sum<-1"}, rec.calls)
}

func TestEmit_ErrorStopsTraversal(t *testing.T) {
	rec := &recorder{failOn: "Count"}

	err := NewGenerator(siblingGraph()).Emit(context.Background(), rec, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Count")
	assert.Equal(t, []string{"Filter<-0"}, rec.calls)
}

func TestCycleDetection(t *testing.T) {
	head := NewHead()
	f := head.Then(op("Filter", "x>0"))
	d := f.Then(op("Define", "y", "x"))
	d.Children = append(d.Children, f)

	_, err := NewGenerator(head).ActionNodes()
	assert.ErrorIs(t, err, ErrCycle)

	err = NewGenerator(head).Emit(context.Background(), &recorder{}, 0)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestSharedNodeIsNotACycle(t *testing.T) {
	head := NewHead()
	count := &Node{Operation: op("Count")}
	a := head.Then(op("Filter", "x>0"))
	b := head.Then(op("Filter", "x<0"))
	a.Children = append(a.Children, count)
	b.Children = append(b.Children, count)

	nodes, err := NewGenerator(head).ActionNodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestClone(t *testing.T) {
	head := NewHead()
	snap := head.Then(op("Snapshot", "t", "out.root"))

	c := head.Clone()
	c.Children[0].Operation.SetArg(1, "other.root")

	assert.Equal(t, "out.root", snap.Operation.Args()[1])
	assert.True(t, c.IsHead())
	assert.NotSame(t, head.Children[0], c.Children[0])
}

// operationNamed builds an action descriptor that bypasses the catalog.
func operationNamed(name string) operation.Operation {
	return operation.New(name, operation.Action)
}
