package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/fsutil"
	"github.com/vk/rdfworkflow/internal/graph"
	"github.com/vk/rdfworkflow/internal/operation"
)

// FileExtension is the extension of graph files searched in directories.
const FileExtension = ".hcl"

// ErrNoFiles is returned when none of the given paths holds a graph file.
var ErrNoFiles = errors.New("no graph files found")

// Loader builds operation graphs from HCL files.
type Loader struct {
	catalog *operation.Catalog
}

// NewLoader creates a loader validating operations against catalog. A nil
// catalog selects operation.DefaultCatalog.
func NewLoader(catalog *operation.Catalog) *Loader {
	if catalog == nil {
		catalog = operation.DefaultCatalog()
	}
	return &Loader{catalog: catalog}
}

// fileRoot is the top-level structure of a graph file.
type fileRoot struct {
	Operations []*operationBlock `hcl:"operation,block"`
}

type operationBlock struct {
	Name       string            `hcl:"name,label"`
	Args       hcl.Expression    `hcl:"args,optional"`
	Operations []*operationBlock `hcl:"operation,block"`
}

// Load parses every graph file found under paths and returns the head node
// of the combined graph.
func (l *Loader) Load(ctx context.Context, paths ...string) (*graph.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Graph loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, FileExtension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, paths)
	}
	logger.Debug("Discovered graph files.", "count", len(files))

	parser := hclparse.NewParser()
	head := graph.NewHead()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse graph file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, head, hclFile); err != nil {
			return nil, fmt.Errorf("failed to load graph file %s: %w", file, err)
		}
	}
	return head, nil
}

// Parse builds a graph from the source of a single file.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*graph.Node, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", filename, diags)
	}
	head := graph.NewHead()
	if err := l.decodeInto(ctx, head, hclFile); err != nil {
		return nil, fmt.Errorf("failed to load graph file %s: %w", filename, err)
	}
	return head, nil
}

func (l *Loader) decodeInto(ctx context.Context, head *graph.Node, file *hcl.File) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return diags
	}
	count := 0
	for _, block := range root.Operations {
		n, err := l.translate(block)
		if err != nil {
			return err
		}
		head.Children = append(head.Children, n.node)
		count += n.size
	}
	ctxlog.FromContext(ctx).Debug("Graph file decoded.", "operations", count)
	return nil
}

type translated struct {
	node *graph.Node
	size int
}

// translate converts a block and its nested blocks into graph nodes.
func (l *Loader) translate(block *operationBlock) (translated, error) {
	args, err := decodeArgs(block.Args)
	if err != nil {
		return translated{}, fmt.Errorf("operation %s: %w", block.Name, err)
	}
	op, err := l.catalog.New(block.Name, args...)
	if err != nil {
		return translated{}, err
	}

	out := translated{node: &graph.Node{Operation: op}, size: 1}
	for _, child := range block.Operations {
		c, err := l.translate(child)
		if err != nil {
			return translated{}, err
		}
		out.node.Children = append(out.node.Children, c.node)
		out.size += c.size
	}
	return out, nil
}
