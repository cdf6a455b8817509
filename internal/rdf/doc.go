// Package rdf is a small in-process dataframe runtime that generated units
// are linked against.
//
// A computation starts from a head Node built by NewDataFrame over a
// columnar Source. Transformations (Filter, Define, Range, Alias) return new
// nodes and are lazy. Actions (Count, Sum, Mean, Min, Max, Histo1D, Take)
// book a Result and are lazy as well: all results booked on the same head are
// filled by a single pass over the entries, the event loop, started by the
// first Result.Get of a result that is not ready yet. Snapshot is an instant
// action: booking it runs the event loop immediately and writes the selected
// columns to an Arrow IPC file.
//
// Expressions passed to Filter and Define use HCL expression syntax, which
// covers the usual C-like operators (x > 0 && y != 2, x*x + 1, b ? x : y).
// Column names are variables and a small math library is available as
// functions (sqrt, abs, pow, log, ...).
package rdf
