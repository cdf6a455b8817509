package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/app"
	"github.com/vk/rdfworkflow/internal/testutil"
)

// Test for: a model histogram is filled independently for every range.
func TestCoreExecution_HistogramPerRange(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"graph/main.hcl": `
operation "Define" {
  args = ["x", "rdfentry_ + 0.5"]

  operation "Histo1D" {
    args = [["h", "x", 4, 0, 8], "x"]
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunGraphTest(t, files, func(_ string, cfg *app.Config) {
		cfg.Entries = 8
		cfg.Ranges = 2
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertResult(t, result, 0, 0, "Histogram(h, 4 bins [0, 8), 4 entries)")
	testutil.AssertResult(t, result, 1, 0, "Histogram(h, 4 bins [0, 8), 4 entries)")
	require.Len(t, testutil.GeneratedUnits(t, result), 1)
}
