package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension_Sorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.hcl"))
	touch(t, filepath.Join(dir, "a.hcl"))
	touch(t, filepath.Join(dir, "nested", "c.hcl"))
	touch(t, filepath.Join(dir, "ignored.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, files)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "graphs", "b.hcl"))
	touch(t, filepath.Join(dir, "graphs", "a.hcl"))
	explicit := filepath.Join(dir, "graph.txt")
	touch(t, explicit)

	files, err := CollectFiles([]string{
		explicit,
		filepath.Join(dir, "graphs"),
		filepath.Join(dir, "graphs", "a.hcl"),
		filepath.Join(dir, "missing"),
	}, ".hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{
		explicit,
		filepath.Join(dir, "graphs", "a.hcl"),
		filepath.Join(dir, "graphs", "b.hcl"),
	}, files)
}
