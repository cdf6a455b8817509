package workflow

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vk/rdfworkflow/internal/nodeid"
)

// Naming of the generated entry point and of the file holding it.
const (
	Namespace    = "__distrdf_internal"
	FunctionName = "RunGraph"
	FilePrefix   = "rdfworkflow"
	FileExt      = ".cpp"
)

// EntryPoint is the qualified symbol the Executor resolves after loading a
// unit.
const EntryPoint = Namespace + "::" + FunctionName

// Unit is a finalized, immutable generated translation unit.
type Unit struct {
	// Source is the complete generated code.
	Source string
	// Hash is the hex encoded 64-bit xxhash of Source.
	Hash string
	// FileName is rdfworkflow_<Hash>_<pid>.cpp.
	FileName string
	// ResultCount is the number of results RunGraph returns.
	ResultCount int
	// Snapshots maps result indexes to the output files they are replaced by.
	Snapshots map[int]string
}

func newUnit(source string, pid, results int, snapshots map[int]string) *Unit {
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(source))
	return &Unit{
		Source:      source,
		Hash:        hash,
		FileName:    fmt.Sprintf("%s_%s_%d%s", FilePrefix, hash, pid, FileExt),
		ResultCount: results,
		Snapshots:   snapshots,
	}
}

func (w *Workflow) source() string {
	var b strings.Builder
	for _, inc := range w.includes {
		b.WriteString(inc)
		b.WriteByte('\n')
	}
	b.WriteString("\nnamespace " + Namespace + " {\n\n")
	b.WriteString("std::vector<ROOT::RDF::RResultHandle> " + FunctionName + "(ROOT::RDF::RNode &" + nodeid.DatasetID(nodeid.Head).String() + ")\n{\n")
	b.WriteString("  std::vector<ROOT::RDF::RResultHandle> result_ptrs;\n")

	writeBlock(&b, w.lambdas)
	writeBlock(&b, w.nodes)
	if w.resPtrID > 0 {
		writeBlock(&b, []string{nodeid.ResultID(0).String() + ".GetValue(); // to trigger the event loop"})
	}

	b.WriteString("\n  return result_ptrs;\n}\n\n}\n")
	return b.String()
}

func writeBlock(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteByte('\n')
	for _, line := range lines {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
