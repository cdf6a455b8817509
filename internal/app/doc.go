// Package app contains the core application logic. It wires the graph
// loader, the unit store, the toolchain and the local executor together and
// runs a graph over the entry ranges of a dataset, decoupled from any
// specific entrypoint like a CLI.
package app
