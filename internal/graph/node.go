package graph

import "github.com/vk/rdfworkflow/internal/operation"

// Node is a single vertex of the operation graph.
type Node struct {
	// Operation is nil for the head node.
	Operation operation.Operation
	// Children are visited in slice order.
	Children []*Node
}

// NewHead creates the head node of a new graph.
func NewHead() *Node {
	return &Node{}
}

// IsHead reports whether the node is a head node.
func (n *Node) IsHead() bool {
	return n.Operation == nil
}

// Then appends a child carrying op and returns it, so that chains can be
// written as head.Then(filter).Then(count).
func (n *Node) Then(op operation.Operation) *Node {
	child := &Node{Operation: op}
	n.Children = append(n.Children, child)
	return child
}

// cloner is implemented by operation descriptors that can be copied.
type cloner interface {
	Clone() operation.Operation
}

// Clone deep-copies the subtree rooted at n. Operation descriptors are copied
// when they support it, so that argument rewrites performed during code
// generation stay local to the copy.
func (n *Node) Clone() *Node {
	return n.clone(make(map[*Node]*Node))
}

func (n *Node) clone(seen map[*Node]*Node) *Node {
	if c, ok := seen[n]; ok {
		return c
	}
	c := &Node{Operation: n.Operation}
	if cl, ok := n.Operation.(cloner); ok {
		c.Operation = cl.Clone()
	}
	seen[n] = c
	for _, child := range n.Children {
		c.Children = append(c.Children, child.clone(seen))
	}
	return c
}
