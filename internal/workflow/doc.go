// Package workflow generates, compiles and runs the native code for one
// snapshot of an operation graph.
//
// # Emission
//
// A Workflow is the emission state of one code-generation pass. The graph
// traverser feeds it one AddNode call per visited operation and it
// accumulates:
//   - **includes:** header directives, seeded with the dataframe and result-handle headers
//   - **lambdas:** helper closures, named rdf_lambda0, rdf_lambda1, ...
//   - **statements:** one statement per node, in visiting order
//
// Transformations define a new dataset variable rdf<N> (N starts at 1, rdf0
// is the head dataset received by the generated function). Actions and
// instant actions define res_ptr<K> and append it to the type-erased result
// vector; K is also the index of the result in the returned collection.
//
// # Execution
//
// Finalize wraps everything into one translation unit defining
// __distrdf_internal::RunGraph. The Executor stores the unit under a
// content-addressed file name, compiles it unless an identical unit was
// already built, runs the entry point and substitutes the output path of
// every Snapshot for its native result handle.
//
// A Workflow is owned by a single goroutine and consumed exactly once.
package workflow
