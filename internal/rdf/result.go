package rdf

import (
	"context"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// action is a booked result together with the state that fills it.
type action struct {
	node   *Node
	name   string
	fill   func(e *entry) error
	finish func(ctx context.Context) (any, error)

	done  bool
	value any
	err   error
}

// Result is the lazily computed value of an action.
type Result struct {
	loop   *loop
	action *action
}

// Get returns the value of the action, running the event loop first if the
// value is not ready.
func (r *Result) Get(ctx context.Context) (any, error) {
	r.loop.mu.Lock()
	defer r.loop.mu.Unlock()
	if !r.action.done {
		r.loop.runLocked(ctx)
	}
	return r.action.value, r.action.err
}

// GetValue is an alias of Get.
func (r *Result) GetValue(ctx context.Context) (any, error) { return r.Get(ctx) }

// IsReady reports whether the value has been computed.
func (r *Result) IsReady() bool {
	r.loop.mu.Lock()
	defer r.loop.mu.Unlock()
	return r.action.done
}

// Name returns the name of the action that produced the result.
func (r *Result) Name() string { return r.action.name }

func (n *Node) book(a *action) *Result {
	a.node = n
	n.loop.book(a)
	return &Result{loop: n.loop, action: a}
}

func (n *Node) requireColumn(op, col string) error {
	if !n.HasColumn(col) {
		return fmt.Errorf("%s: unknown column %q", op, col)
	}
	return nil
}

// Count counts the entries reaching the node. The value is a uint64.
func (n *Node) Count() *Result {
	var count uint64
	return n.book(&action{
		name: "Count",
		fill: func(e *entry) error {
			count++
			return nil
		},
		finish: func(context.Context) (any, error) { return count, nil },
	})
}

// numeric books an action folding the float64 values of col.
func (n *Node) numeric(name, col string, fold func(float64), finish func() any) (*Result, error) {
	if err := n.requireColumn(name, col); err != nil {
		return nil, err
	}
	return n.book(&action{
		name: name,
		fill: func(e *entry) error {
			v, err := n.column(e, col)
			if err != nil {
				return err
			}
			f, err := toFloat(v)
			if err != nil {
				return fmt.Errorf("%s(%s): %w", name, col, err)
			}
			fold(f)
			return nil
		},
		finish: func(context.Context) (any, error) { return finish(), nil },
	}), nil
}

// Sum adds up col. The value is a float64.
func (n *Node) Sum(col string) (*Result, error) {
	var sum float64
	return n.numeric("Sum", col, func(f float64) { sum += f }, func() any { return sum })
}

// Mean averages col. The mean of no entries is 0.
func (n *Node) Mean(col string) (*Result, error) {
	var sum float64
	var count int
	return n.numeric("Mean", col,
		func(f float64) { sum += f; count++ },
		func() any {
			if count == 0 {
				return 0.0
			}
			return sum / float64(count)
		})
}

// Min returns the smallest value of col, or math.MaxFloat64 without entries.
func (n *Node) Min(col string) (*Result, error) {
	lo := math.MaxFloat64
	return n.numeric("Min", col, func(f float64) { lo = math.Min(lo, f) }, func() any { return lo })
}

// Max returns the largest value of col, or -math.MaxFloat64 without entries.
func (n *Node) Max(col string) (*Result, error) {
	hi := -math.MaxFloat64
	return n.numeric("Max", col, func(f float64) { hi = math.Max(hi, f) }, func() any { return hi })
}

// Histo1D fills a histogram of col whose range is taken from the data.
func (n *Node) Histo1D(col string) (*Result, error) {
	var values []float64
	return n.numeric("Histo1D", col,
		func(f float64) { values = append(values, f) },
		func() any { return autoHistogram(col, values) })
}

// Histo1DModel fills a histogram of col with the binning of model.
func (n *Node) Histo1DModel(model HistoModel, col string) (*Result, error) {
	h, err := model.histogram()
	if err != nil {
		return nil, fmt.Errorf("Histo1D: %w", err)
	}
	return n.numeric("Histo1D", col, h.Fill, func() any { return h })
}

// Take collects the values of col. The value is a []any holding int64,
// float64, string or bool elements.
func (n *Node) Take(col string) (*Result, error) {
	if err := n.requireColumn("Take", col); err != nil {
		return nil, err
	}
	typ, _ := n.columnType(col)
	values := []any{}
	return n.book(&action{
		name: "Take",
		fill: func(e *entry) error {
			v, err := n.column(e, col)
			if err != nil {
				return err
			}
			g, err := goValue(v, typ)
			if err != nil {
				return fmt.Errorf("Take(%s): %w", col, err)
			}
			values = append(values, g)
			return nil
		},
		finish: func(context.Context) (any, error) { return values, nil },
	}), nil
}

// goValue converts a cell to its Go representation. Numbers become int64
// for Int64 columns and float64 otherwise.
func goValue(v cty.Value, typ ColumnType) (any, error) {
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		if typ == Int64 {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err != nil {
				return nil, err
			}
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type().FriendlyName())
	}
}
