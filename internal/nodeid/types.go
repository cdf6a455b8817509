// internal/nodeid/types.go
package nodeid

// Kind is the identifier family.
type Kind int

const (
	// Dataset identifies a dataset stage variable (rdfN).
	Dataset Kind = iota
	// Result identifies a booked result variable (res_ptrN).
	Result
	// Lambda identifies a helper closure variable (rdf_lambdaN).
	Lambda
)

// Prefixes of each identifier family in generated code.
const (
	DatasetPrefix = "rdf"
	ResultPrefix  = "res_ptr"
	LambdaPrefix  = "rdf_lambda"
)

// Head is the identifier of the externally supplied head dataset.
const Head = 0

// Ident is the structured form of a generated identifier.
type Ident struct {
	Kind  Kind
	Index int
}

// DatasetID returns the identifier of dataset stage n.
func DatasetID(n int) Ident { return Ident{Kind: Dataset, Index: n} }

// ResultID returns the identifier of result n.
func ResultID(n int) Ident { return Ident{Kind: Result, Index: n} }

// LambdaID returns the identifier of helper closure n.
func LambdaID(n int) Ident { return Ident{Kind: Lambda, Index: n} }
