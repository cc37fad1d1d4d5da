// Package inmemorytopology provides a simple, thread-safe, in-memory
// implementation of the topologystore.Store interface.
//
// Nodes are indexed by their canonical nodeid key and remember the order in
// which they were first seen. Every query that returns a collection sorts by
// that order, which keeps traversal results deterministic without imposing
// any ordering on the caller's task names or arguments.
package inmemorytopology
