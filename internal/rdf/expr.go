package rdf

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions is the function table available to expressions.
var functions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"int":    stdlib.IntFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"lower":  stdlib.LowerFunc,
	"upper":  stdlib.UpperFunc,
	"strlen": stdlib.StrlenFunc,
	"sqrt":   mathFunc(math.Sqrt),
	"exp":    mathFunc(math.Exp),
	"log":    mathFunc(math.Log),
	"log10":  mathFunc(math.Log10),
	"sin":    mathFunc(math.Sin),
	"cos":    mathFunc(math.Cos),
	"tan":    mathFunc(math.Tan),
}

// mathFunc lifts a float64 function into a cty function of one number.
func mathFunc(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "x", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			r := fn(x)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return cty.NilVal, function.NewArgErrorf(0, "result is not a finite number")
			}
			return cty.NumberFloatVal(r), nil
		},
	})
}

// expression is a parsed column expression.
type expression struct {
	src     string
	expr    hclsyntax.Expression
	columns []string
}

// compileExpression parses src and checks that every referenced column is
// visible and every called function exists.
func compileExpression(src string, visible func(string) bool) (*expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expression %q: %s", src, diags.Error())
	}

	columns, funcs := referencesAndFunctions(expr)
	for _, name := range columns {
		if !visible(name) {
			return nil, fmt.Errorf("unknown column %q in expression %q", name, src)
		}
	}
	for _, name := range funcs {
		if _, ok := functions[name]; !ok {
			return nil, fmt.Errorf("unknown function %q in expression %q", name, src)
		}
	}
	return &expression{src: src, expr: expr, columns: columns}, nil
}

// eval evaluates the expression for one entry, reading columns as seen by n.
func (x *expression) eval(n *Node, e *entry) (cty.Value, error) {
	vars := make(map[string]cty.Value, len(x.columns))
	for _, name := range x.columns {
		v, err := n.column(e, name)
		if err != nil {
			return cty.NilVal, err
		}
		vars[name] = v
	}
	v, diags := x.expr.Value(&hcl.EvalContext{Variables: vars, Functions: functions})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating %q at entry %d: %s", x.src, e.global(), diags.Error())
	}
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, fmt.Errorf("evaluating %q at entry %d: no value", x.src, e.global())
	}
	return v, nil
}

// referencesAndFunctions returns the sorted, unique root variable names and
// function names referenced by expr.
func referencesAndFunctions(expr hclsyntax.Expression) ([]string, []string) {
	vars := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		vars[traversal.RootName()] = struct{}{}
	}
	funcs := make(map[string]struct{})
	walkForFunctions(expr, funcs)
	return sortedKeys(vars), sortedKeys(funcs)
}

// walkForFunctions recursively walks the syntax tree collecting the names of
// called functions, which Variables does not report.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truth converts a filter result to a boolean. Numbers are true when
// non-zero.
func truth(v cty.Value) (bool, error) {
	switch v.Type() {
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		return v.AsBigFloat().Sign() != 0, nil
	default:
		return false, fmt.Errorf("filter expression must yield a boolean, got %s", v.Type().FriendlyName())
	}
}

// toFloat converts a numeric cell to float64.
func toFloat(v cty.Value) (float64, error) {
	if v.Type() != cty.Number {
		return 0, fmt.Errorf("expected a numeric column value, got %s", v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}
