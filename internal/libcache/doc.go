// Package libcache provides a thread-safe, process-local cache of loaded
// generated units.
//
// # Purpose
//
// Loading a compiled unit into the process is the expensive step of running
// a graph. Once a unit is loaded, every later execution of the same unit in
// the same process reuses it. The cache is keyed by unit file name, which
// already encodes the content hash and the process identifier.
//
// # Concurrency Model
//
//   - **Lookups:** sync.Map, lock-free once a unit is loaded
//   - **Loads:** golang.org/x/sync/singleflight, so concurrent callers asking
//     for the same unit share a single compilation
//   - **Failures:** never cached; the next caller compiles again
//
// No lock is held while a loaded unit runs.
package libcache
