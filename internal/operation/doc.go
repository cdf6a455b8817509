// Package operation models the operation descriptors attached to the nodes of
// a lazily-built dataframe graph.
//
// An operation is identified by its name (e.g. "Filter", "Count") and carries
// an ordered list of literal arguments. The code generator never needs to know
// what an operation computes; it only asks the capability query:
//
//   - **Transformation:** produces a new dataset stage from its parent
//   - **Action:** books a result on its parent stage
//   - **InstantAction:** an action that runs eagerly when booked
//
// The Catalog maps operation names to their kind and arity. It is the
// boundary where unknown operation names are rejected, before any node ever
// reaches the code generator.
package operation
