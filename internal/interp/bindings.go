package interp

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/rdfworkflow/internal/operation"
	"github.com/vk/rdfworkflow/internal/rdf"
)

// invoker applies a linked operation to a dataset. It returns an *rdf.Node
// for transformations and an *rdf.Result for actions.
type invoker func(ctx context.Context, n *rdf.Node) (any, error)

// binding checks the literal arguments of an operation and returns its
// invoker.
type binding func(args []any) (invoker, error)

// bindings maps every operation of operation.DefaultCatalog to the runtime.
var bindings = map[string]binding{
	"Filter": func(args []any) (invoker, error) {
		strs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Filter(strs[0], strs[1:]...)
		}, nil
	},
	"Define": func(args []any) (invoker, error) {
		strs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Define(strs[0], strs[1])
		}, nil
	},
	"Range": func(args []any) (invoker, error) {
		ints := make([]int, len(args))
		for i, arg := range args {
			v, err := intArg(arg)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			ints[i] = v
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Range(ints...)
		}, nil
	},
	"Alias": func(args []any) (invoker, error) {
		strs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Alias(strs[0], strs[1])
		}, nil
	},
	"Count": func(args []any) (invoker, error) {
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Count(), nil
		}, nil
	},
	"Sum":  columnAction((*rdf.Node).Sum),
	"Mean": columnAction((*rdf.Node).Mean),
	"Min":  columnAction((*rdf.Node).Min),
	"Max":  columnAction((*rdf.Node).Max),
	"Take": columnAction((*rdf.Node).Take),
	"Histo1D": func(args []any) (invoker, error) {
		if len(args) == 1 {
			return columnAction((*rdf.Node).Histo1D)(args)
		}
		model, err := histoModel(args[0])
		if err != nil {
			return nil, err
		}
		col, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("argument 1: expected column name, got %T", args[1])
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return n.Histo1DModel(model, col)
		}, nil
	},
	"Snapshot": func(args []any) (invoker, error) {
		strs, err := stringArgs(args[:2])
		if err != nil {
			return nil, err
		}
		var columns []string
		if len(args) == 3 {
			if columns, err = columnList(args[2]); err != nil {
				return nil, fmt.Errorf("argument 2: %w", err)
			}
		}
		return func(ctx context.Context, n *rdf.Node) (any, error) {
			return n.Snapshot(ctx, strs[0], strs[1], columns...)
		}, nil
	},
}

func columnAction(fn func(*rdf.Node, string) (*rdf.Result, error)) binding {
	return func(args []any) (invoker, error) {
		strs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, n *rdf.Node) (any, error) {
			return fn(n, strs[0])
		}, nil
	}
}

func stringArgs(args []any) ([]string, error) {
	strs := make([]string, len(args))
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("argument %d: expected string, got %T", i, arg)
		}
		strs[i] = s
	}
	return strs, nil
}

func intArg(arg any) (int, error) {
	switch v := arg.(type) {
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %v", arg)
}

func floatArg(arg any) (float64, error) {
	switch v := arg.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("expected number, got %v", arg)
}

func columnList(arg any) ([]string, error) {
	switch v := arg.(type) {
	case string:
		return []string{v}, nil
	case operation.Tuple:
		return stringArgs(v)
	}
	return nil, fmt.Errorf("expected column list, got %T", arg)
}

// histoModel converts a {name, title, bins, low, high} aggregate.
func histoModel(arg any) (rdf.HistoModel, error) {
	t, ok := arg.(operation.Tuple)
	if !ok || len(t) != 5 {
		return rdf.HistoModel{}, fmt.Errorf("histogram model must be {name, title, bins, low, high}, got %v", arg)
	}
	names, err := stringArgs(t[:2])
	if err != nil {
		return rdf.HistoModel{}, fmt.Errorf("histogram model: %w", err)
	}
	bins, err := intArg(t[2])
	if err != nil {
		return rdf.HistoModel{}, fmt.Errorf("histogram model bins: %w", err)
	}
	low, err := floatArg(t[3])
	if err != nil {
		return rdf.HistoModel{}, fmt.Errorf("histogram model low edge: %w", err)
	}
	high, err := floatArg(t[4])
	if err != nil {
		return rdf.HistoModel{}, fmt.Errorf("histogram model high edge: %w", err)
	}
	return rdf.HistoModel{Name: names[0], Title: names[1], Bins: bins, Low: low, High: high}, nil
}
