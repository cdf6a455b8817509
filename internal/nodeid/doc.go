// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for the identifiers the
code generator assigns inside a generated unit.

Three identifier families exist:

  - `rdf<N>`: a dataset stage; `rdf0` is the externally supplied head node
  - `res_ptr<N>`: a booked result; N is also its index in the result collection
  - `rdf_lambda<N>`: a generated helper closure

This package centralizes formatting and parsing so that the generator and the
in-process toolchain agree on the naming scheme.
*/
package nodeid
