// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
)

// identRegex matches every generated identifier family. The lambda prefix is
// listed first because it shares the `rdf` prefix with datasets.
var identRegex = regexp.MustCompile(`^(rdf_lambda|res_ptr|rdf)(0|[1-9][0-9]*)$`)

// Parse converts a generated identifier back into its structured form.
func Parse(raw string) (Ident, error) {
	if raw == "" {
		return Ident{}, fmt.Errorf("identifier cannot be empty")
	}

	matches := identRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Ident{}, fmt.Errorf("invalid generated identifier: %q", raw)
	}

	index, err := strconv.Atoi(matches[2])
	if err != nil {
		// Unreachable due to regex `[0-9]+`, barring overflow.
		return Ident{}, fmt.Errorf("invalid identifier index in %q: %w", raw, err)
	}

	var kind Kind
	switch matches[1] {
	case LambdaPrefix:
		kind = Lambda
	case ResultPrefix:
		kind = Result
	default:
		kind = Dataset
	}
	return Ident{Kind: kind, Index: index}, nil
}
