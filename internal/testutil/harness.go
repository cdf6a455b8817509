package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output  string
	Err     error
	App     *app.App
	Dir     string
	WorkDir string
}

// RunGraphTest writes files into a temporary directory, runs the app over
// the graph found in its "graph" subdirectory and returns the outcome. The
// configure function, if not nil, may adjust the configuration before it is
// validated; relative paths in files are resolved against the directory.
func RunGraphTest(t *testing.T, files map[string]string, configure func(dir string, cfg *app.Config)) *HarnessResult {
	t.Helper()
	return RunGraphTestWithContext(context.Background(), t, files, configure)
}

// RunGraphTestWithContext is RunGraphTest with a caller-provided context.
func RunGraphTestWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(dir string, cfg *app.Config)) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	graphDir := filepath.Join(dir, "graph")
	require.NoError(t, os.MkdirAll(graphDir, 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := app.Config{
		GraphPaths: []string{graphDir},
		WorkDir:    filepath.Join(dir, "work"),
		Entries:    10,
		Ranges:     1,
		Workers:    2,
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	if configure != nil {
		configure(dir, &cfg)
	}
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	testApp := app.NewApp(out, validated)
	runErr := testApp.Run(ctx)

	if os.Getenv("RDFWORKFLOW_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
	}

	return &HarnessResult{
		Output:  out.String(),
		Err:     runErr,
		App:     testApp,
		Dir:     dir,
		WorkDir: validated.WorkDir,
	}
}
