package unitstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDirectoryAndIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "work")

	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, dir, s.Dir())
	assert.FileExists(t, filepath.Join(dir, IndexFile))
}

func TestOpen_LockedIndexTimesOut(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(dir, WithTimeout(50*time.Millisecond))
	assert.Error(t, err)
}

func TestReserve_Lifecycle(t *testing.T) {
	s := openStore(t)
	const name = "rdfworkflow_00ff_1.cpp"

	// --- First reservation claims the unit ---
	reserved, err := s.Reserve(name, "00ff")
	require.NoError(t, err)
	assert.True(t, reserved)

	require.NoError(t, s.Write(name, "source"))
	require.NoError(t, s.MarkCompiled(name))

	// --- Second reservation is a cache hit ---
	reserved, err = s.Reserve(name, "00ff")
	require.NoError(t, err)
	assert.False(t, reserved)

	rec, ok, err := s.Lookup(name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusCompiled, rec.Status)
	assert.Equal(t, "00ff", rec.Hash)
	assert.Equal(t, os.Getpid(), rec.PID)
	assert.Equal(t, 1, rec.Compilations)
}

func TestReserve_FailedUnitIsRegenerated(t *testing.T) {
	s := openStore(t)
	const name = "unit.cpp"

	reserved, err := s.Reserve(name, "h")
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, s.Write(name, "broken"))
	require.NoError(t, s.MarkFailed(name, errors.New("syntax error")))

	rec, _, err := s.Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "syntax error", rec.Error)

	reserved, err = s.Reserve(name, "h")
	require.NoError(t, err)
	assert.True(t, reserved)

	rec, _, err = s.Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Empty(t, rec.Error)
}

func TestReserve_MissingFileIsRegenerated(t *testing.T) {
	s := openStore(t)
	const name = "unit.cpp"

	_, err := s.Reserve(name, "h")
	require.NoError(t, err)
	require.NoError(t, s.Write(name, "source"))
	require.NoError(t, s.MarkCompiled(name))
	require.NoError(t, os.Remove(s.Path(name)))

	reserved, err := s.Reserve(name, "h")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestWrite_ReplacesFile(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Write("unit.cpp", "first"))
	require.NoError(t, s.Write("unit.cpp", "second"))

	data, err := os.ReadFile(s.Path("unit.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{IndexFile, "unit.cpp"}, names, "temporary files must not be left behind")
}

func TestUpdate_UnknownUnit(t *testing.T) {
	s := openStore(t)

	err := s.MarkCompiled("missing.cpp")
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok, err := s.Lookup("missing.cpp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList_OrderedByName(t *testing.T) {
	s := openStore(t)
	for _, name := range []string{"c.cpp", "a.cpp", "b.cpp"} {
		_, err := s.Reserve(name, "h")
		require.NoError(t, err)
	}

	recs, err := s.List()
	require.NoError(t, err)

	var names []string
	for _, rec := range recs {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"a.cpp", "b.cpp", "c.cpp"}, names)
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	_, err = s.Reserve("unit.cpp", "h")
	require.NoError(t, err)
	require.NoError(t, s.Write("unit.cpp", "source"))
	require.NoError(t, s.MarkCompiled("unit.cpp"))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	reserved, err := s.Reserve("unit.cpp", "h")
	require.NoError(t, err)
	assert.False(t, reserved)
}
