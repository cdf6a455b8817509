// Package hcl loads operation graphs from HCL description files.
//
// A file holds a tree of operation blocks. The block label is the operation
// name, the optional args attribute its positional arguments, and nested
// operation blocks its children:
//
//	operation "Define" {
//	  args = ["x", "rdfentry_ * 0.01"]
//
//	  operation "Filter" {
//	    args = ["x > 0.5"]
//	    operation "Count" {}
//	  }
//	  operation "Histo1D" {
//	    args = [["h", "x", 64, 0, 10], "x"]
//	  }
//	}
//
// Top-level blocks of every loaded file become children of the head node,
// in file order. Nested lists become aggregates (operation.Tuple), whole
// numbers become int64 and other numbers float64.
package hcl
