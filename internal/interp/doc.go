// Package interp is the default, in-process toolchain.
//
// It accepts the subset of C++ the code generator emits, checks it the way a
// compiler would (declarations before use, known operations with a valid
// number of arguments, matching variable kinds) and links the unit against
// the rdf runtime. The resulting library exposes the generated function under
// its qualified name; calling it replays the generated statements on the head
// dataset it receives, which must be an *rdf.Node or an *rdf.Source.
//
// Helper closures are supported when their body is a literal, typically an
// expression string:
//
//	auto rdf_lambda0 = "x*x";
//	auto rdf1 = rdf0.Define("y", rdf_lambda0);
package interp
