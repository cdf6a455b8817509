package operation

import (
	"fmt"
	"log/slog"
	"sort"
)

// Spec describes a registered operation: its kind and the number of
// positional arguments it accepts.
type Spec struct {
	Name    string
	Kind    Kind
	MinArgs int
	MaxArgs int
}

// Catalog holds the operation specs known to a graph.
type Catalog struct {
	specs map[string]Spec
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[string]Spec)}
}

// Register adds an operation spec. Registering the same name twice is a
// programmer error and panics.
func (c *Catalog) Register(spec Spec) {
	if _, exists := c.specs[spec.Name]; exists {
		panic(fmt.Sprintf("operation '%s' already registered", spec.Name))
	}
	if spec.MaxArgs < spec.MinArgs {
		panic(fmt.Sprintf("operation '%s': max args %d below min args %d", spec.Name, spec.MaxArgs, spec.MinArgs))
	}
	slog.Debug("Registering operation.", "name", spec.Name, "kind", spec.Kind)
	c.specs[spec.Name] = spec
}

// Lookup returns the spec registered under name.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// Names returns all registered operation names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a validated operation descriptor.
func (c *Catalog) New(name string, args ...any) (*Op, error) {
	spec, ok := c.specs[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	if len(args) < spec.MinArgs || len(args) > spec.MaxArgs {
		return nil, &ArityError{Name: name, Got: len(args), Min: spec.MinArgs, Max: spec.MaxArgs}
	}
	return New(name, spec.Kind, args...), nil
}

// MustNew is like New but panics on error. Intended for tests and static
// graph definitions.
func (c *Catalog) MustNew(name string, args ...any) *Op {
	op, err := c.New(name, args...)
	if err != nil {
		panic(err)
	}
	return op
}

// DefaultCatalog returns a catalog with the dataframe operations understood by
// the in-process runtime.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Register(Spec{Name: "Filter", Kind: Transformation, MinArgs: 1, MaxArgs: 2})
	c.Register(Spec{Name: "Define", Kind: Transformation, MinArgs: 2, MaxArgs: 2})
	c.Register(Spec{Name: "Range", Kind: Transformation, MinArgs: 1, MaxArgs: 3})
	c.Register(Spec{Name: "Alias", Kind: Transformation, MinArgs: 2, MaxArgs: 2})

	c.Register(Spec{Name: "Count", Kind: Action, MinArgs: 0, MaxArgs: 0})
	c.Register(Spec{Name: "Sum", Kind: Action, MinArgs: 1, MaxArgs: 1})
	c.Register(Spec{Name: "Mean", Kind: Action, MinArgs: 1, MaxArgs: 1})
	c.Register(Spec{Name: "Min", Kind: Action, MinArgs: 1, MaxArgs: 1})
	c.Register(Spec{Name: "Max", Kind: Action, MinArgs: 1, MaxArgs: 1})
	c.Register(Spec{Name: "Histo1D", Kind: Action, MinArgs: 1, MaxArgs: 2})
	c.Register(Spec{Name: "Take", Kind: Action, MinArgs: 1, MaxArgs: 1})

	c.Register(Spec{Name: "Snapshot", Kind: InstantAction, MinArgs: 2, MaxArgs: 3})

	return c
}
