package workflow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/operation"
)

func TestRenderArgs(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want string
	}{
		{name: "no arguments", args: nil, want: ""},
		{name: "string is quoted", args: []any{"x>0"}, want: `"x>0"`},
		{name: "strings joined by comma and space", args: []any{"y", "x*2"}, want: `"y", "x*2"`},
		{name: "embedded quotes are not escaped", args: []any{`a"b`}, want: `"a"b"`},
		{name: "integers", args: []any{10, int64(-3), uint8(7)}, want: "10, -3, 7"},
		{name: "floats keep a fractional part", args: []any{4.0, -0.5, float32(2)}, want: "4.0, -0.5, 2.0"},
		{name: "exponent floats", args: []any{1e21}, want: "1e+21"},
		{name: "booleans", args: []any{true, false}, want: "true, false"},
		{name: "lambda reference is verbatim", args: []any{operation.Ref("rdf_lambda0")}, want: "rdf_lambda0"},
		{
			name: "tuple elements joined without space",
			args: []any{operation.Tuple{"h", "title", 64, -4.0, 4.0}, "x"},
			want: `{"h","title",64,-4.0,4.0}, "x"`,
		},
		{name: "nested tuple", args: []any{operation.Tuple{"a", operation.Tuple{1, 2}}}, want: `{"a",{1,2}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := renderArgs("Op", tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderArgs_Unsupported(t *testing.T) {
	testCases := []struct {
		name  string
		args  []any
		index int
	}{
		{name: "map", args: []any{"x", map[string]int{"a": 1}}, index: 1},
		{name: "struct", args: []any{struct{}{}}, index: 0},
		{name: "nil", args: []any{nil}, index: 0},
		{name: "not a number", args: []any{math.NaN()}, index: 0},
		{name: "infinity", args: []any{math.Inf(1)}, index: 0},
		{name: "unsupported tuple element", args: []any{operation.Tuple{"a", []int{1}}}, index: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := renderArgs("Op", tc.args)
			require.Error(t, err)

			var renderErr *ArgumentRenderingError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, "Op", renderErr.Operation)
			assert.Equal(t, tc.index, renderErr.Index)
		})
	}
}

func TestRangeOutputPath(t *testing.T) {
	testCases := []struct {
		path    string
		rangeID int
		want    string
	}{
		{path: "out.root", rangeID: 3, want: "out_3.root"},
		{path: "dir/out.root", rangeID: 0, want: "dir/out_0.root"},
		{path: "a.b.root", rangeID: 12, want: "a.b_12.root"},
		{path: "out", rangeID: 1, want: "out_1.root"},
		{path: "out.txt", rangeID: 2, want: "out.txt_2.root"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, rangeOutputPath(tc.path, tc.rangeID))
		})
	}
}
