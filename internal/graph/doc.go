// Package graph holds the lazily-built operation graph and the traverser that
// turns it into generated code.
//
// # Structure
//
// A graph is rooted at a head node, which stands for the already existing
// dataset being extended and carries no operation. Every other node carries
// exactly one operation descriptor and an ordered list of children:
//
//	head
//	 ├── Filter("x>0")
//	 │    └── Count()
//	 └── Filter("y>0")
//	      └── Sum("y")
//
// The order of children is significant. It fixes the order in which nodes are
// registered with the code generator, hence the identifiers assigned to them
// and the order of the returned result collection.
//
// # Traversal
//
// Generator walks the graph depth-first, registering a node before any of its
// children and completing a whole subtree before moving to the next sibling.
// Generated code must define every variable before use, and siblings may
// independently reference the same parent variable, so this order is part of
// the contract:
//
//	ActionNodes() -> [Count, Sum]
//	Emit()        -> rdf1 = rdf0.Filter; res_ptr0 = rdf1.Count;
//	                 rdf2 = rdf0.Filter; res_ptr1 = rdf2.Sum
package graph
