package operation

import "fmt"

// Kind classifies what an operation contributes to the graph.
type Kind int

const (
	// Transformation produces a new dataset stage.
	Transformation Kind = iota
	// Action books a lazily evaluated result.
	Action
	// InstantAction books a result and triggers evaluation immediately.
	InstantAction
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Transformation:
		return "transformation"
	case Action:
		return "action"
	case InstantAction:
		return "instant_action"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsResult reports whether operations of this kind produce a result rather
// than a new dataset stage.
func (k Kind) IsResult() bool {
	return k == Action || k == InstantAction
}

// Tuple is a fixed aggregate of literal values, e.g. a histogram model
// ("h", "title", 64, -4.0, 4.0).
type Tuple []any

// Ref names a generated helper closure. It is rendered verbatim in generated
// code instead of being quoted.
type Ref string

// Operation is the read-only view of an operation descriptor the code
// generator relies on. SetArg is the single mutation it may perform, used to
// rewrite output paths of Snapshot operations.
type Operation interface {
	Name() string
	Args() []any
	SetArg(i int, v any)
	Kind() Kind
	IsTransformation() bool
	IsAction() bool
	IsInstantAction() bool
}

// Op is the concrete operation descriptor.
type Op struct {
	name string
	kind Kind
	args []any
}

var _ Operation = (*Op)(nil)

// New creates an operation descriptor without consulting a catalog. Callers
// outside of tests should prefer Catalog.New, which validates the name.
func New(name string, kind Kind, args ...any) *Op {
	copied := make([]any, len(args))
	copy(copied, args)
	return &Op{name: name, kind: kind, args: copied}
}

func (o *Op) Name() string { return o.name }
func (o *Op) Kind() Kind   { return o.kind }

// Args returns the positional arguments in their original order.
func (o *Op) Args() []any { return o.args }

// SetArg replaces the argument at position i. It panics if i is out of range.
func (o *Op) SetArg(i int, v any) {
	o.args[i] = v
}

func (o *Op) IsTransformation() bool { return o.kind == Transformation }
func (o *Op) IsAction() bool         { return o.kind == Action }
func (o *Op) IsInstantAction() bool  { return o.kind == InstantAction }

// String renders the operation for logs, e.g. Filter[x>0].
func (o *Op) String() string {
	return fmt.Sprintf("%s%v", o.name, o.args)
}

// Clone returns a copy of the descriptor whose arguments can be rewritten
// without affecting the original.
func (o *Op) Clone() Operation {
	return New(o.name, o.kind, o.args...)
}
