package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertResult checks that the output of a run reports value for the given
// range and result index.
func AssertResult(t *testing.T, res *HarnessResult, rangeID, index int, value string) {
	t.Helper()

	prefix := fmt.Sprintf("range=%d ", rangeID)
	suffix := fmt.Sprintf(" result=%d ", index)
	for _, line := range strings.Split(res.Output, "\n") {
		if !strings.HasPrefix(line, prefix) || !strings.Contains(line, suffix) {
			continue
		}
		require.True(t, strings.HasSuffix(line, "value="+value),
			"range %d result %d: expected value %q, got line %q", rangeID, index, value, line)
		return
	}
	require.Failf(t, "result not reported", "range %d result %d not found in output:\n%s", rangeID, index, res.Output)
}

// GeneratedUnits returns the generated source files in the work directory.
func GeneratedUnits(t *testing.T, res *HarnessResult) []string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(res.WorkDir, "*.cpp"))
	require.NoError(t, err)
	return files
}
