package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/rdfworkflow/internal/operation"
)

// decodeArgs evaluates the args attribute into operation literals. A missing
// attribute yields no arguments.
func decodeArgs(expr hcl.Expression) ([]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("args must be a list, got %s", val.Type().FriendlyName())
	}

	args := make([]any, 0, val.LengthInt())
	for i, elem := range val.AsValueSlice() {
		v, err := literal(elem)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// literal converts a cty value into an operation argument literal.
func literal(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("null or unknown value")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		if val.AsBigFloat().IsInt() {
			var i int64
			if err := gocty.FromCtyValue(val, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty.IsTupleType() || ty.IsListType():
		tuple := operation.Tuple{}
		for _, elem := range val.AsValueSlice() {
			v, err := literal(elem)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, v)
		}
		return tuple, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
