// Package engine is the invalidation controller: the single owner of one
// dependency graph, one node store and one task registry.
//
// Normal calls flow caller → registry → cache → graph edge recording.
// Maintenance flows the other way: Invalidate marks a node stale, and
// Rebuild expands every stale node into its recursive consequences and
// recomputes them in dependency order.
//
// A Controller is not safe for concurrent use. Invalidate and Rebuild are
// expected to run as one uninterrupted sequence on a single goroutine; the
// watcher package is the canonical caller.
package engine
