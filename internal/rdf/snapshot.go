package rdf

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/rdfworkflow/internal/ctxlog"
)

// TreeMetadataKey is the schema metadata key holding the tree name of a
// snapshot file.
const TreeMetadataKey = "rdf.tree"

// Snapshot writes columns of the entries reaching the node to an Arrow IPC
// file at path. Without columns, Columns() is written. Booking a snapshot
// runs the event loop, together with every other pending action. The value
// is a new head Node over the written entries.
func (n *Node) Snapshot(ctx context.Context, tree, path string, columns ...string) (*Result, error) {
	if tree == "" || path == "" {
		return nil, fmt.Errorf("Snapshot: tree name and output path are required")
	}
	if len(columns) == 0 {
		columns = n.Columns()
	}

	cols := make([]*column, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, name := range columns {
		if err := n.requireColumn("Snapshot", name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("Snapshot: duplicate column %q", name)
		}
		seen[name] = true
		typ, _ := n.columnType(name)
		cols[i] = &column{name: name, typ: typ}
	}

	res := n.book(&action{
		name: "Snapshot",
		fill: func(e *entry) error {
			for _, col := range cols {
				v, err := n.column(e, col.name)
				if err != nil {
					return err
				}
				col.values = append(col.values, v)
			}
			return nil
		},
		finish: func(ctx context.Context) (any, error) {
			inferTypes(cols)
			if err := writeArrow(path, tree, cols); err != nil {
				return nil, err
			}
			ctxlog.FromContext(ctx).Debug("Snapshot written.", "tree", tree, "path", path, "columns", len(cols))
			return NewDataFrame(newSource(cols)), nil
		},
	})

	if _, err := res.Get(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// inferTypes corrects the type of defined columns whose values are not
// numbers.
func inferTypes(cols []*column) {
	for _, col := range cols {
		if len(col.values) == 0 {
			continue
		}
		switch col.values[0].Type() {
		case cty.String:
			col.typ = String
		case cty.Bool:
			col.typ = Bool
		}
	}
}

func newSource(cols []*column) *Source {
	s := &Source{cols: cols, index: make(map[string]int, len(cols))}
	for i, col := range cols {
		s.index[col.name] = i
		s.entries = len(col.values)
	}
	return s
}

func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case String:
		return arrow.BinaryTypes.String
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

func writeArrow(path, tree string, cols []*column) error {
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		fields[i] = arrow.Field{Name: col.name, Type: arrowType(col.typ)}
	}
	md := arrow.NewMetadata([]string{TreeMetadataKey}, []string{tree})
	schema := arrow.NewSchema(fields, &md)

	pool := memory.NewGoAllocator()
	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	for i, col := range cols {
		if err := appendColumn(b.Field(i), col); err != nil {
			return fmt.Errorf("Snapshot: column %q: %w", col.name, err)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Snapshot: %w", err)
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		f.Close()
		return fmt.Errorf("Snapshot: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("Snapshot: writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("Snapshot: writing %s: %w", path, err)
	}
	return f.Close()
}

func appendColumn(b array.Builder, col *column) error {
	switch fb := b.(type) {
	case *array.Int64Builder:
		for _, v := range col.values {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err != nil {
				return err
			}
			fb.Append(i)
		}
	case *array.Float64Builder:
		for _, v := range col.values {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			fb.Append(f)
		}
	case *array.StringBuilder:
		for _, v := range col.values {
			if v.Type() != cty.String {
				return fmt.Errorf("expected string, got %s", v.Type().FriendlyName())
			}
			fb.Append(v.AsString())
		}
	case *array.BooleanBuilder:
		for _, v := range col.values {
			if v.Type() != cty.Bool {
				return fmt.Errorf("expected bool, got %s", v.Type().FriendlyName())
			}
			fb.Append(v.True())
		}
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

// ReadSnapshot loads a file written by Snapshot. It returns the entries as a
// Source together with the tree name.
func ReadSnapshot(path string) (*Source, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, "", fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	defer r.Close()

	schema := r.Schema()
	tree := ""
	md := schema.Metadata()
	if i := md.FindKey(TreeMetadataKey); i >= 0 {
		tree = md.Values()[i]
	}

	cols := make([]*column, len(schema.Fields()))
	for i, field := range schema.Fields() {
		cols[i] = &column{name: field.Name}
	}
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, "", fmt.Errorf("reading snapshot %s: %w", path, err)
		}
		for c, col := range cols {
			if err := readColumn(col, rec.Column(c)); err != nil {
				return nil, "", fmt.Errorf("reading snapshot %s: column %q: %w", path, col.name, err)
			}
		}
	}
	return newSource(cols), tree, nil
}

func readColumn(col *column, arr arrow.Array) error {
	switch a := arr.(type) {
	case *array.Int64:
		col.typ = Int64
		for i := 0; i < a.Len(); i++ {
			col.values = append(col.values, cty.NumberIntVal(a.Value(i)))
		}
	case *array.Float64:
		col.typ = Float64
		for i := 0; i < a.Len(); i++ {
			col.values = append(col.values, cty.NumberFloatVal(a.Value(i)))
		}
	case *array.String:
		col.typ = String
		for i := 0; i < a.Len(); i++ {
			col.values = append(col.values, cty.StringVal(a.Value(i)))
		}
	case *array.Boolean:
		col.typ = Bool
		for i := 0; i < a.Len(); i++ {
			col.values = append(col.values, cty.BoolVal(a.Value(i)))
		}
	default:
		return fmt.Errorf("unsupported arrow type %s", arr.DataType())
	}
	return nil
}
