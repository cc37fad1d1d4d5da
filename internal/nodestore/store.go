// Package nodestore defines the interface for storing and retrieving the
// mutable cache state of task nodes.
//
// # Why Node Store Exists
//
// The node store isolates **cached task state** (values, staleness,
// invocation counters, last error) from the **graph structure** managed by
// topologystore. The registry reads and writes it on every task call; the
// controller scans it for stale nodes when rebuilding.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** once per controller (ephemeral, not persistent across runs)
//  2. **Populated** lazily: a node is created on the first call to its task
//  3. **Mutated** on every call (counters) and every execution (value, state)
//  4. **Discarded** with the controller
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	Unbuilt → Fresh → Stale → Fresh (or Failed, until the next invalidate + call)
package nodestore

import (
	"context"

	"github.com/specialistvlad/contingent/internal/node"
	"github.com/specialistvlad/contingent/internal/nodeid"
)

// Store is the interface for managing the cache state of task nodes.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Per-node mutation is
// delegated to node.Node, which guards its own fields.
type Store interface {
	// Ensure returns the node for id, creating it in the Unbuilt state if it
	// does not exist yet.
	Ensure(ctx context.Context, id *nodeid.Address) *node.Node

	// Get returns the node for id and true, or nil and false if no call has
	// ever addressed it.
	Get(ctx context.Context, id *nodeid.Address) (*node.Node, bool)

	// AllNodes returns every node in creation order.
	AllNodes(ctx context.Context) []*node.Node

	// StaleNodes returns every node currently marked stale, in creation order.
	StaleNodes(ctx context.Context) []*node.Node
}
