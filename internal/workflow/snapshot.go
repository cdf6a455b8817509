package workflow

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/vk/rdfworkflow/internal/operation"
)

const (
	// SnapshotOperation is the name of the output-to-file action.
	SnapshotOperation = "Snapshot"
	// snapshotPathArg is the position of the output file argument.
	snapshotPathArg = 1
	// snapshotExt is the extension split off and re-appended around the
	// range suffix.
	snapshotExt = ".root"
)

// rangeOutputPath inserts the range suffix before the output extension, so
// that executions over different ranges never write the same file:
// out.root -> out_3.root. A path without the extension gets it appended.
func rangeOutputPath(path string, rangeID int) string {
	base := strings.TrimSuffix(path, snapshotExt)
	return base + "_" + strconv.Itoa(rangeID) + snapshotExt
}

// snapshotSource returns the output path of a Snapshot operation as given
// by the graph, before any range rewrite applied by this workflow.
func (w *Workflow) snapshotSource(op operation.Operation) (string, error) {
	if reflect.TypeOf(op).Comparable() {
		if path, ok := w.snapshotSources[op]; ok {
			return path, nil
		}
	}
	args := op.Args()
	if len(args) <= snapshotPathArg {
		return "", fmt.Errorf("%s requires an output path argument", op.Name())
	}
	path, ok := args[snapshotPathArg].(string)
	if !ok {
		return "", &ArgumentRenderingError{Operation: op.Name(), Index: snapshotPathArg, Value: args[snapshotPathArg]}
	}
	return path, nil
}
