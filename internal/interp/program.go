package interp

import (
	"context"
	"fmt"

	"github.com/vk/rdfworkflow/internal/nodeid"
	"github.com/vk/rdfworkflow/internal/rdf"
	"github.com/vk/rdfworkflow/internal/result"
)

// program is a linked unit.
type program struct {
	symbol string
	head   string
	vector string
	stmts  []stmt
}

// env holds the variables of one invocation.
type env struct {
	datasets map[string]*rdf.Node
	results  map[string]*rdf.Result
	out      []result.Handle
}

type stmt func(ctx context.Context, e *env) error

// run invokes the program on the head dataset.
func (p *program) run(ctx context.Context, dataset any) ([]result.Handle, error) {
	var head *rdf.Node
	switch d := dataset.(type) {
	case *rdf.Node:
		head = d
	case *rdf.Source:
		head = rdf.NewDataFrame(d)
	default:
		return nil, fmt.Errorf("%s: unsupported dataset handle %T", p.symbol, dataset)
	}
	if head == nil {
		return nil, fmt.Errorf("%s: nil dataset handle", p.symbol)
	}

	e := &env{
		datasets: map[string]*rdf.Node{p.head: head},
		results:  make(map[string]*rdf.Result),
		out:      []result.Handle{},
	}
	for _, s := range p.stmts {
		if err := s(ctx, e); err != nil {
			return nil, err
		}
	}
	return e.out, nil
}

func callStmt(target string, kind nodeid.Kind, parent, opName string, inv invoker) stmt {
	return func(ctx context.Context, e *env) error {
		v, err := inv(ctx, e.datasets[parent])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", parent, opName, err)
		}
		if kind == nodeid.Dataset {
			e.datasets[target] = v.(*rdf.Node)
		} else {
			e.results[target] = v.(*rdf.Result)
		}
		return nil
	}
}

func emplaceStmt(name string) stmt {
	return func(ctx context.Context, e *env) error {
		e.out = append(e.out, result.NewNative(e.results[name]))
		return nil
	}
}

func getValueStmt(name string) stmt {
	return func(ctx context.Context, e *env) error {
		_, err := e.results[name].Get(ctx)
		return err
	}
}
