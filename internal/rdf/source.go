package rdf

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// EntryColumn is the implicit column holding the global entry number.
const EntryColumn = "rdfentry_"

// ColumnType is the storage type of a column.
type ColumnType int

const (
	Float64 ColumnType = iota
	Int64
	String
	Bool
)

func (t ColumnType) String() string {
	switch t {
	case Int64:
		return "int64"
	case String:
		return "string"
	case Bool:
		return "bool"
	default:
		return "float64"
	}
}

func (t ColumnType) ctyType() cty.Type {
	switch t {
	case String:
		return cty.String
	case Bool:
		return cty.Bool
	default:
		return cty.Number
	}
}

// Column is a named column of values. Values must be a slice of int, int64,
// float64, string or bool.
type Column struct {
	Name   string
	Values any
}

type column struct {
	name   string
	typ    ColumnType
	values []cty.Value
}

// Source is an immutable columnar dataset.
type Source struct {
	cols    []*column
	index   map[string]int
	offset  int
	entries int
}

// NewRange creates a source of n entries without columns, the equivalent of
// an empty dataframe with n entries. Only EntryColumn is available.
func NewRange(n int) (*Source, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative number of entries: %d", n)
	}
	return &Source{index: map[string]int{}, entries: n}, nil
}

// FromColumns creates a source from equally long columns.
func FromColumns(cols ...Column) (*Source, error) {
	s := &Source{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c.Name == "" || c.Name == EntryColumn {
			return nil, fmt.Errorf("invalid column name %q", c.Name)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		col, err := toColumn(c)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			s.entries = len(col.values)
		} else if len(col.values) != s.entries {
			return nil, fmt.Errorf("column %q has %d entries, expected %d", c.Name, len(col.values), s.entries)
		}
		s.index[c.Name] = len(s.cols)
		s.cols = append(s.cols, col)
	}
	return s, nil
}

func toColumn(c Column) (*column, error) {
	var typ ColumnType
	switch c.Values.(type) {
	case []int, []int64:
		typ = Int64
	case []float64:
		typ = Float64
	case []string:
		typ = String
	case []bool:
		typ = Bool
	default:
		return nil, fmt.Errorf("column %q: unsupported value type %T", c.Name, c.Values)
	}

	list, err := gocty.ToCtyValue(c.Values, cty.List(typ.ctyType()))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	col := &column{name: c.Name, typ: typ}
	if !list.IsNull() && list.LengthInt() > 0 {
		col.values = list.AsValueSlice()
	}
	return col, nil
}

// Entries returns the number of entries.
func (s *Source) Entries() int { return s.entries }

// Columns returns the column names in definition order.
func (s *Source) Columns() []string {
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.name
	}
	return names
}

// ColumnType returns the type of the named column.
func (s *Source) ColumnType(name string) (ColumnType, bool) {
	if name == EntryColumn {
		return Int64, true
	}
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.cols[i].typ, true
}

// Slice returns the entries in [begin, end). Entry numbers of the slice keep
// counting from the parent source, so EntryColumn stays global.
func (s *Source) Slice(begin, end int) (*Source, error) {
	if begin < 0 || end < begin || end > s.entries {
		return nil, fmt.Errorf("invalid slice [%d, %d) of %d entries", begin, end, s.entries)
	}
	return &Source{cols: s.cols, index: s.index, offset: s.offset + begin, entries: end - begin}, nil
}

func (s *Source) value(name string, entry int) (cty.Value, bool) {
	if name == EntryColumn {
		return cty.NumberIntVal(int64(s.offset + entry)), true
	}
	i, ok := s.index[name]
	if !ok {
		return cty.NilVal, false
	}
	return s.cols[i].values[s.offset+entry], true
}
