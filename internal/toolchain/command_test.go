package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/result"
)

// recorder is a loading toolchain remembering the paths it was given.
type recorder struct {
	compiled []string
	loaded   []string
}

func (r *recorder) library() Library {
	return Symbols{"ns::Fn": func(ctx context.Context, dataset any) ([]result.Handle, error) {
		return nil, nil
	}}
}

func (r *recorder) Compile(ctx context.Context, path string) (Library, error) {
	r.compiled = append(r.compiled, path)
	return r.library(), nil
}

func (r *recorder) Load(ctx context.Context, path string) (Library, error) {
	r.loaded = append(r.loaded, path)
	return r.library(), nil
}

func TestNewCommand_Validation(t *testing.T) {
	_, err := NewCommand(nil, &recorder{})
	assert.Error(t, err)

	_, err = NewCommand([]string{"true"}, nil)
	assert.Error(t, err)
}

func TestCommand_Argv(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "placeholder substituted",
			args: []string{"c++", "-fsyntax-only", "-x", "c++", "{file}"},
			want: []string{"c++", "-fsyntax-only", "-x", "c++", "/w/unit.cpp"},
		},
		{
			name: "placeholder inside argument",
			args: []string{"check", "--input={file}"},
			want: []string{"check", "--input=/w/unit.cpp"},
		},
		{
			name: "path appended without placeholder",
			args: []string{"cc"},
			want: []string{"cc", "/w/unit.cpp"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCommand(tc.args, &recorder{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.argv("/w/unit.cpp"))
		})
	}
}

func TestCommand_Compile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	t.Run("success delegates to next toolchain", func(t *testing.T) {
		next := &recorder{}
		c, err := NewCommand([]string{"sh", "-c", "test -f {file}"}, next)
		require.NoError(t, err)

		lib, err := c.Compile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, []string{path}, next.compiled)

		_, err = lib.Lookup("ns::Fn")
		assert.NoError(t, err)
	})

	t.Run("failure returns compilation error with output", func(t *testing.T) {
		next := &recorder{}
		c, err := NewCommand([]string{"sh", "-c", "echo 'unit rejected' >&2; exit 3"}, next)
		require.NoError(t, err)

		_, err = c.Compile(context.Background(), path)
		require.Error(t, err)

		var compErr *CompilationError
		require.True(t, errors.As(err, &compErr))
		assert.Equal(t, path, compErr.File)
		assert.Contains(t, compErr.Output, "unit rejected")
		assert.Contains(t, err.Error(), path)
		assert.Empty(t, next.compiled, "next toolchain must not run after a failed compile")
	})
}

func TestCommand_LoadSkipsCompiler(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	path := filepath.Join(dir, "unit.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))
	next := &recorder{}
	c, err := NewCommand([]string{"sh", "-c", "touch " + marker + "; exit 1"}, next)
	require.NoError(t, err)

	// --- Act ---
	lib, err := c.Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.NoFileExists(t, marker, "the compiler must not run on load")
	assert.Equal(t, []string{path}, next.loaded)
	assert.Empty(t, next.compiled)
	_, err = lib.Lookup("ns::Fn")
	assert.NoError(t, err)
}

func TestSymbols_Lookup(t *testing.T) {
	lib := Symbols{"ns::Fn": func(ctx context.Context, dataset any) ([]result.Handle, error) { return nil, nil }}

	fn, err := lib.Lookup("ns::Fn")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = lib.Lookup("ns::Other")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}
