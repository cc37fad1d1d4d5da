// Package graph provides the dependency graph over task nodes: a directed
// graph whose edges are discovered at runtime from task call nesting.
//
// # Direction Convention
//
// An edge (A, B) means "B's last execution invoked A". The *consequences* of
// a node are the nodes whose cached values would be invalidated if it
// changed, i.e. its dependents:
//
//	read("f.md") ──► render("f.md") ──► publish("f.md")
//	 dependency        consequence        consequence
//
// # Architecture
//
// Manager is a thin facade over a topologystore.Store that adds the
// traversal the controller needs: transitive consequence lookup in
// dependency order. It does not know about cached values; those live in the
// nodestore owned by the registry.
//
// # Cycles
//
// Cycles are permitted in the structure (including self-edges).
// RecursiveConsequencesOf visits every node at most once, so it terminates
// on any input and never returns more nodes than Tasks().
package graph
