package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/operation"
)

func filter(expr string) *operation.Op {
	return operation.New("Filter", operation.Transformation, expr)
}

func count() *operation.Op {
	return operation.New("Count", operation.Action)
}

func TestAddNode_Identifiers(t *testing.T) {
	w := New(WithProcessID(42))

	// --- Act ---
	id1, err := w.AddNode(filter("x>0"), 0, 0)
	require.NoError(t, err)
	id2, err := w.AddNode(operation.New("Define", operation.Transformation, "y", "x*2"), 0, id1)
	require.NoError(t, err)
	parent, err := w.AddNode(operation.New("Sum", operation.Action, "y"), 0, id2)
	require.NoError(t, err)
	parent2, err := w.AddNode(count(), 0, id1)
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)
	assert.Equal(t, id2, parent, "actions return their parent identifier")
	assert.Equal(t, id1, parent2)
	assert.Equal(t, 2, w.ResultCount())
	assert.Equal(t, []string{
		`auto rdf1 = rdf0.Filter("x>0");`,
		`auto rdf2 = rdf1.Define("y", "x*2");`,
		`auto res_ptr0 = rdf2.Sum("y");`,
		`result_ptrs.emplace_back(res_ptr0);`,
		`auto res_ptr1 = rdf1.Count();`,
		`result_ptrs.emplace_back(res_ptr1);`,
	}, w.nodes)
}

func TestAddNode_Snapshot(t *testing.T) {
	w := New()
	snap := operation.New("Snapshot", operation.InstantAction, "tree", "out.root")

	_, err := w.AddNode(count(), 3, 0)
	require.NoError(t, err)
	_, err = w.AddNode(snap, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, "out_3.root", snap.Args()[1], "output path is rewritten in place")
	assert.Equal(t, map[int]string{1: "out_3.root"}, w.Snapshots())
	assert.Contains(t, w.String(), `auto res_ptr1 = rdf0.Snapshot("tree", "out_3.root");`)
}

func TestAddNode_SharedSnapshotKeepsOriginalPath(t *testing.T) {
	// --- Arrange ---
	w := New()
	snap := operation.New("Snapshot", operation.InstantAction, "tree", "out.root")
	left, err := w.AddNode(filter("x>0"), 3, 0)
	require.NoError(t, err)
	right, err := w.AddNode(filter("x<0"), 3, 0)
	require.NoError(t, err)

	// --- Act ---
	_, err = w.AddNode(snap, 3, left)
	require.NoError(t, err)
	_, err = w.AddNode(snap, 3, right)
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, map[int]string{0: "out_3.root", 1: "out_3.root"}, w.Snapshots())
	assert.Equal(t, "out_3.root", snap.Args()[1])
	assert.NotContains(t, w.String(), "out_3_3.root")
}

func TestAddNode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		op   operation.Operation
	}{
		{name: "unsupported argument", op: operation.New("Filter", operation.Transformation, []string{"x"})},
		{name: "snapshot without path", op: operation.New("Snapshot", operation.InstantAction, "tree")},
		{name: "snapshot with non-string path", op: operation.New("Snapshot", operation.InstantAction, "tree", 7)},
		{name: "snapshot with unsupported column list", op: operation.New("Snapshot", operation.InstantAction, "tree", "out.root", []string{"x"})},
		{name: "unknown kind", op: operation.New("Weird", operation.Kind(9))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := New()
			before := make([]any, len(tc.op.Args()))
			copy(before, tc.op.Args())

			_, err := w.AddNode(tc.op, 1, 0)

			require.Error(t, err)
			assert.Empty(t, w.nodes)
			assert.Empty(t, w.Snapshots())
			assert.Equal(t, 0, w.ResultCount())
			assert.Equal(t, before, tc.op.Args(), "operation must not be modified on error")
		})
	}
}

func TestAddIncludeAndLambda(t *testing.T) {
	w := New()

	w.AddInclude(`#include "ROOT/RDataFrame.hxx"`)
	w.AddInclude(`#include <cmath>`)
	w.AddInclude(`#include <cmath>`)
	ref0 := w.AddLambda(`[](double x) { return x > 0; }`)
	ref1 := w.AddLambda(`"x*x"`)

	assert.Equal(t, operation.Ref("rdf_lambda0"), ref0)
	assert.Equal(t, operation.Ref("rdf_lambda1"), ref1)
	assert.Len(t, w.includes, 3)

	src := w.String()
	assert.Equal(t, 1, strings.Count(src, "#include <cmath>"))
	assert.Equal(t, 1, strings.Count(src, `#include "ROOT/RDataFrame.hxx"`))
	assert.Contains(t, src, "auto rdf_lambda0 = [](double x) { return x > 0; };")
	assert.Contains(t, src, `auto rdf_lambda1 = "x*x";`)
}

func TestSource_Layout(t *testing.T) {
	w := New()
	id, err := w.AddNode(filter("x>0"), 0, 0)
	require.NoError(t, err)
	_, err = w.AddNode(count(), 0, id)
	require.NoError(t, err)

	want := `#include "ROOT/RDataFrame.hxx"
#include "ROOT/RResultHandle.hxx"

namespace __distrdf_internal {

std::vector<ROOT::RDF::RResultHandle> RunGraph(ROOT::RDF::RNode &rdf0)
{
  std::vector<ROOT::RDF::RResultHandle> result_ptrs;

  auto rdf1 = rdf0.Filter("x>0");
  auto res_ptr0 = rdf1.Count();
  result_ptrs.emplace_back(res_ptr0);

  res_ptr0.GetValue(); // to trigger the event loop

  return result_ptrs;
}

}
`
	assert.Equal(t, want, w.String())
}

func TestSource_NoResultsHasNoTrigger(t *testing.T) {
	w := New()
	_, err := w.AddNode(filter("x>0"), 0, 0)
	require.NoError(t, err)

	assert.NotContains(t, w.String(), "GetValue")
}

func TestFinalize(t *testing.T) {
	build := func(pid int, expr string) *Unit {
		w := New(WithProcessID(pid))
		id, err := w.AddNode(filter(expr), 0, 0)
		require.NoError(t, err)
		_, err = w.AddNode(count(), 0, id)
		require.NoError(t, err)
		u, err := w.Finalize()
		require.NoError(t, err)
		return u
	}

	a := build(7, "x>0")
	b := build(7, "x>0")
	c := build(7, "x>1")
	d := build(8, "x>0")

	assert.Len(t, a.Hash, 16)
	assert.Equal(t, "rdfworkflow_"+a.Hash+"_7.cpp", a.FileName)
	assert.Equal(t, a.FileName, b.FileName, "identical code maps to the same file")
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.Equal(t, a.Hash, d.Hash)
	assert.NotEqual(t, a.FileName, d.FileName, "file names are scoped to the process")
	assert.Equal(t, 1, a.ResultCount)
}

func TestFinalize_Consumed(t *testing.T) {
	w := New()
	_, err := w.Finalize()
	require.NoError(t, err)

	_, err = w.Finalize()
	assert.ErrorIs(t, err, ErrConsumed)
}
