package rdf

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

type nodeKind int

const (
	headNode nodeKind = iota
	filterNode
	defineNode
	rangeNode
	aliasNode
)

// Node is one stage of a computation graph: the head dataset or the result
// of a transformation. Nodes are immutable once created and can be shared by
// several downstream branches.
type Node struct {
	loop   *loop
	parent *Node
	kind   nodeKind
	id     int

	// name is the filter name, defined column or alias.
	name   string
	expr   *expression
	target string

	begin, end, stride int
}

// NewDataFrame creates the head node of a computation over src.
func NewDataFrame(src *Source) *Node {
	l := &loop{src: src}
	return l.add(&Node{kind: headNode})
}

// Entries returns the number of entries of the underlying source.
func (n *Node) Entries() int { return n.loop.src.Entries() }

// Filter keeps the entries for which expr is true. An optional name labels
// the filter.
func (n *Node) Filter(expr string, name ...string) (*Node, error) {
	if len(name) > 1 {
		return nil, fmt.Errorf("Filter accepts at most one name, got %d", len(name))
	}
	x, err := compileExpression(expr, n.HasColumn)
	if err != nil {
		return nil, fmt.Errorf("Filter: %w", err)
	}
	child := &Node{parent: n, kind: filterNode, expr: x}
	if len(name) == 1 {
		child.name = name[0]
	}
	return n.loop.add(child), nil
}

// Define adds a column computed by expr.
func (n *Node) Define(column, expr string) (*Node, error) {
	if column == "" {
		return nil, fmt.Errorf("Define: empty column name")
	}
	if n.HasColumn(column) {
		return nil, fmt.Errorf("Define: redefinition of column %q", column)
	}
	x, err := compileExpression(expr, n.HasColumn)
	if err != nil {
		return nil, fmt.Errorf("Define: %w", err)
	}
	return n.loop.add(&Node{parent: n, kind: defineNode, name: column, expr: x}), nil
}

// Range keeps a window of the entries reaching it: Range(end) or
// Range(begin, end[, stride]). An end of 0 means no upper bound.
func (n *Node) Range(args ...int) (*Node, error) {
	begin, end, stride := 0, 0, 1
	switch len(args) {
	case 1:
		end = args[0]
	case 2:
		begin, end = args[0], args[1]
	case 3:
		begin, end, stride = args[0], args[1], args[2]
	default:
		return nil, fmt.Errorf("Range: expected 1 to 3 arguments, got %d", len(args))
	}
	if begin < 0 || end < 0 || stride <= 0 || (end != 0 && end < begin) {
		return nil, fmt.Errorf("Range: invalid window begin=%d end=%d stride=%d", begin, end, stride)
	}
	return n.loop.add(&Node{parent: n, kind: rangeNode, begin: begin, end: end, stride: stride}), nil
}

// Alias makes column available under another name.
func (n *Node) Alias(alias, column string) (*Node, error) {
	if !n.HasColumn(column) {
		return nil, fmt.Errorf("Alias: unknown column %q", column)
	}
	if n.HasColumn(alias) {
		return nil, fmt.Errorf("Alias: column %q already exists", alias)
	}
	return n.loop.add(&Node{parent: n, kind: aliasNode, name: alias, target: column}), nil
}

// HasColumn reports whether name can be read at this node.
func (n *Node) HasColumn(name string) bool {
	_, ok := n.columnType(name)
	return ok
}

// Columns returns the columns written by a Snapshot without explicit column
// list: source columns followed by defined columns, in definition order.
func (n *Node) Columns() []string {
	var defined []string
	for cur := n; cur != nil; cur = cur.parent {
		if cur.kind == defineNode {
			defined = append([]string{cur.name}, defined...)
		}
	}
	return append(n.loop.src.Columns(), defined...)
}

// columnType returns the storage type of name. Defined columns are numbers
// stored as Float64 unless the first value says otherwise.
func (n *Node) columnType(name string) (ColumnType, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		switch cur.kind {
		case defineNode:
			if cur.name == name {
				return Float64, true
			}
		case aliasNode:
			if cur.name == name {
				return cur.parent.columnType(cur.target)
			}
		case headNode:
			return cur.loop.src.ColumnType(name)
		}
	}
	return 0, false
}

// accept reports whether the current entry passes every filter and range
// between the head and n.
func (n *Node) accept(e *entry) (bool, error) {
	if n.kind == headNode {
		return true, nil
	}
	switch e.pass[n.id] {
	case passed:
		return true, nil
	case rejected:
		return false, nil
	}

	ok, err := n.parent.accept(e)
	if err != nil {
		return false, err
	}
	if ok {
		switch n.kind {
		case filterNode:
			v, err := n.expr.eval(n.parent, e)
			if err != nil {
				return false, err
			}
			if ok, err = truth(v); err != nil {
				return false, fmt.Errorf("evaluating %q: %w", n.expr.src, err)
			}
		case rangeNode:
			seen := e.run.rangeSeen[n.id]
			e.run.rangeSeen[n.id]++
			ok = seen >= n.begin && (n.end == 0 || seen < n.end) && (seen-n.begin)%n.stride == 0
		}
	}

	if ok {
		e.pass[n.id] = passed
	} else {
		e.pass[n.id] = rejected
	}
	return ok, nil
}

// column reads name for the current entry as seen by n.
func (n *Node) column(e *entry, name string) (cty.Value, error) {
	for cur := n; cur != nil; cur = cur.parent {
		switch cur.kind {
		case defineNode:
			if cur.name != name {
				continue
			}
			if e.evaluated[cur.id] {
				return e.defined[cur.id], nil
			}
			v, err := cur.expr.eval(cur.parent, e)
			if err != nil {
				return cty.NilVal, err
			}
			e.defined[cur.id] = v
			e.evaluated[cur.id] = true
			return v, nil
		case aliasNode:
			if cur.name == name {
				return cur.parent.column(e, cur.target)
			}
		case headNode:
			v, ok := cur.loop.src.value(name, e.index)
			if !ok {
				return cty.NilVal, fmt.Errorf("unknown column %q", name)
			}
			return v, nil
		}
	}
	return cty.NilVal, fmt.Errorf("unknown column %q", name)
}
