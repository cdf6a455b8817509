// Package localexecutor runs a compiled graph over the entry ranges of a
// dataset, in-process and concurrently.
//
// The entries of the dataset are split into contiguous ranges. Every range
// gets its own head dataset and its own invocation of the graph callable,
// identified by the range id, so that per-range side effects such as
// Snapshot output files never collide. Results are returned in range order.
// Merging partial results across ranges is left to the caller.
package localexecutor
