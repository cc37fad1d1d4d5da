// Package topologystore defines the interface for storing and retrieving the
// structure of the dependency graph: which nodes exist and which edges
// connect them.
//
// # Why Topology Store Exists
//
// The topology store isolates the **graph structure** (nodes and dependency
// edges) from the **cached task state** (values, staleness, counters) managed
// by nodestore. Structure queries (consequence lookup during rebuild) never
// mix with cache updates, and either side can be tested on its own.
//
// # Edge Direction
//
// An edge (From, To) means "To's last execution invoked From": From is the
// dependency, To is the dependent. The consequences of a node are therefore
// its outgoing neighbours.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per controller (ephemeral, not persistent across runs)
//  2. **Populated** dynamically as tasks call other tasks
//  3. **Pruned** when a task re-executes and its old inputs are cleared
//  4. **Discarded** with the controller
package topologystore

import (
	"context"

	"github.com/specialistvlad/contingent/internal/nodeid"
)

// Store is the interface for managing the topology of a directed graph that
// may contain cycles.
//
// Nodes are never deleted. Iteration order is the order in which nodes were
// first seen, so results are stable across runs.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use; the healthcheck endpoint
// reads the topology while the watcher rebuilds.
type Store interface {
	// AddNode registers a node. Adding the same node twice is idempotent.
	AddNode(ctx context.Context, id *nodeid.Address) error

	// AddEdge creates the directed edge from -> to, registering either
	// endpoint if absent. Adding an existing edge is idempotent.
	AddEdge(ctx context.Context, from, to *nodeid.Address) error

	// RemoveEdge deletes the edge from -> to if present. Removing an absent
	// edge is a no-op and never an error. Endpoints are kept.
	RemoveEdge(ctx context.Context, from, to *nodeid.Address) error

	// HasNode reports whether the node is known.
	HasNode(ctx context.Context, id *nodeid.Address) bool

	// AllNodes returns every node in first-seen order.
	AllNodes(ctx context.Context) []*nodeid.Address

	// AllEdges returns every edge ordered by (From, To) first-seen order.
	AllEdges(ctx context.Context) []nodeid.Edge

	// Outgoing returns every x with an edge (id, x), in first-seen order.
	// Unknown nodes have no outgoing edges.
	Outgoing(ctx context.Context, id *nodeid.Address) []*nodeid.Address

	// Incoming returns every x with an edge (x, id), in first-seen order.
	Incoming(ctx context.Context, id *nodeid.Address) []*nodeid.Address
}
