package workflow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vk/rdfworkflow/internal/operation"
)

// renderArgs renders positional arguments as a comma separated list of
// literals. Strings are quoted as-is: embedded quote characters are not
// escaped.
func renderArgs(opName string, args []any) (string, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		rendered, ok := renderLiteral(arg)
		if !ok {
			return "", &ArgumentRenderingError{Operation: opName, Index: i, Value: arg}
		}
		parts[i] = rendered
	}
	return strings.Join(parts, ", "), nil
}

// renderLiteral returns the literal form of v and whether v has one.
func renderLiteral(v any) (string, bool) {
	switch arg := v.(type) {
	case string:
		return `"` + arg + `"`, true
	case operation.Ref:
		return string(arg), true
	case operation.Tuple:
		elems := make([]string, len(arg))
		for i, elem := range arg {
			rendered, ok := renderLiteral(elem)
			if !ok {
				return "", false
			}
			elems[i] = rendered
		}
		return "{" + strings.Join(elems, ",") + "}", true
	case bool:
		return strconv.FormatBool(arg), true
	case int:
		return strconv.Itoa(arg), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", arg), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", arg), true
	case float32:
		return renderFloat(float64(arg), 32)
	case float64:
		return renderFloat(arg, 64)
	default:
		return "", false
	}
}

// renderFloat keeps floating point literals recognizable as such, so 4.0
// renders as 4.0 and not as the integer literal 4.
func renderFloat(f float64, bitSize int) (string, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, true
}
