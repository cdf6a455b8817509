package hcl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/graph"
	"github.com/vk/rdfworkflow/internal/operation"
)

const sampleGraph = `
operation "Define" {
  args = ["x", "rdfentry_ * 0.5"]

  operation "Filter" {
    args = ["x > 1", "positive"]
    operation "Count" {}
  }
  operation "Histo1D" {
    args = [["h", "x", 64, -4.5, 4], "x"]
  }
}

operation "Snapshot" {
  args = ["tree", "out.root", ["x"]]
}
`

func TestParse(t *testing.T) {
	head, err := NewLoader(nil).Parse(context.Background(), "graph.hcl", []byte(sampleGraph))
	require.NoError(t, err)

	require.Len(t, head.Children, 2)
	define := head.Children[0]
	assert.Equal(t, "Define", define.Operation.Name())
	assert.Equal(t, []any{"x", "rdfentry_ * 0.5"}, define.Operation.Args())
	assert.True(t, define.Operation.IsTransformation())

	require.Len(t, define.Children, 2)
	filter := define.Children[0]
	assert.Equal(t, []any{"x > 1", "positive"}, filter.Operation.Args())
	require.Len(t, filter.Children, 1)
	assert.Equal(t, "Count", filter.Children[0].Operation.Name())
	assert.Empty(t, filter.Children[0].Operation.Args())

	histo := define.Children[1]
	assert.Equal(t, []any{operation.Tuple{"h", "x", int64(64), -4.5, int64(4)}, "x"}, histo.Operation.Args())

	snap := head.Children[1]
	assert.True(t, snap.Operation.IsInstantAction())
	assert.Equal(t, []any{"tree", "out.root", operation.Tuple{"x"}}, snap.Operation.Args())

	nodes, err := graph.NewGenerator(head).ActionNodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown operation",
			src:  `operation "Frobnicate" {}`,
			check: func(t *testing.T, err error) {
				var unknown *operation.UnknownOperationError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "Frobnicate", unknown.Name)
			},
		},
		{
			name: "wrong arity",
			src:  `operation "Define" { args = ["x"] }`,
			check: func(t *testing.T, err error) {
				var arity *operation.ArityError
				require.True(t, errors.As(err, &arity))
			},
		},
		{
			name: "args not a list",
			src:  `operation "Filter" { args = "x > 0" }`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "must be a list")
			},
		},
		{
			name: "unsupported argument",
			src:  `operation "Filter" { args = [{ a = 1 }] }`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "argument 0")
			},
		},
		{
			name: "syntax error",
			src:  `operation "Filter" {`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to parse")
			},
		},
		{
			name: "unexpected block",
			src:  `step "x" {}`,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader(nil).Parse(context.Background(), "graph.hcl", []byte(tc.src))
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestLoad_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`operation "Count" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`operation "Sum" { args = ["x"] }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not a graph`), 0o644))

	head, err := NewLoader(nil).Load(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, head.Children, 2)
	assert.Equal(t, "Sum", head.Children[0].Operation.Name(), "files are loaded in sorted order")
	assert.Equal(t, "Count", head.Children[1].Operation.Name())
}

func TestLoad_NoFiles(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)
}
