// Package unitstore keeps generated units on disk, addressed by file name.
//
// Every unit file lives in a single work directory. Next to the files, a
// bbolt database (units.db) records one entry per file name with the content
// hash, the owning process, and the compile status of the unit. Reserving a
// name is a single write transaction, so exactly one caller generates and
// compiles a given unit; every other caller sees a cache hit.
//
// Files are never removed by the store. Cleaning the work directory between
// runs is left to the operator.
package unitstore
