package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/rdfworkflow/internal/ctxlog"
	"github.com/vk/rdfworkflow/internal/nodeid"
	"github.com/vk/rdfworkflow/internal/operation"
)

// ErrCycle is returned when a node is reachable from itself.
var ErrCycle = errors.New("graph: cycle detected")

// Emitter receives one AddNode call per visited operation. The returned
// identifier is used as the parent identifier of the node's children.
type Emitter interface {
	AddNode(op operation.Operation, rangeID, parentID int) (int, error)
}

// Generator traverses the graph rooted at Head.
type Generator struct {
	Head *Node
}

// NewGenerator creates a traverser for the graph rooted at head.
func NewGenerator(head *Node) *Generator {
	return &Generator{Head: head}
}

// ActionNodes returns the action and instant-action nodes reachable from the
// head, in depth-first pre-order. The head itself is never included and
// transformation nodes are traversed but not returned. The order coincides
// with the order of the results produced by executing the graph.
func (g *Generator) ActionNodes() ([]*Node, error) {
	var nodes []*Node
	onPath := make(map[*Node]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if onPath[n] {
			return cycleError(n)
		}
		onPath[n] = true
		defer delete(onPath, n)

		if !n.IsHead() && (n.Operation.IsAction() || n.Operation.IsInstantAction()) {
			nodes = append(nodes, n)
		}
		for _, child := range n.Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(g.Head); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Emit registers every node below the head with the emitter. Children of the
// head are registered against the head dataset; every other node is
// registered against the identifier returned for its parent. A subtree is
// fully emitted before its next sibling.
func (g *Generator) Emit(ctx context.Context, e Emitter, rangeID int) error {
	logger := ctxlog.FromContext(ctx)
	onPath := map[*Node]bool{g.Head: true}

	var explore func(n *Node, parentID int) error
	explore = func(n *Node, parentID int) error {
		if onPath[n] {
			return cycleError(n)
		}
		onPath[n] = true
		defer delete(onPath, n)

		if n.IsHead() {
			return fmt.Errorf("head node found below the head of the graph")
		}

		nodeID, err := e.AddNode(n.Operation, rangeID, parentID)
		if err != nil {
			return fmt.Errorf("failed to add node %s: %w", n.Operation.Name(), err)
		}
		logger.Debug("Graph node emitted.", "operation", n.Operation.Name(), "parent_id", parentID, "node_id", nodeID)

		for _, child := range n.Children {
			if err := explore(child, nodeID); err != nil {
				return err
			}
		}
		return nil
	}

	for _, child := range g.Head.Children {
		if err := explore(child, nodeid.Head); err != nil {
			return err
		}
	}
	return nil
}

func cycleError(n *Node) error {
	if n.IsHead() {
		return fmt.Errorf("%w: involving the head node", ErrCycle)
	}
	return fmt.Errorf("%w: involving operation %s", ErrCycle, n.Operation.Name())
}
