package graph

import (
	"context"

	"github.com/specialistvlad/contingent/internal/nodeid"
)

// Graph is the interface for the dependency graph between task nodes.
//
// # Usage Patterns
//
// **Registry** uses Graph to:
//   - Register nodes on first call: AddNode()
//   - Record observed calls: AddEdge()
//   - Forget a node's old inputs before re-executing it: ClearDependenciesOf()
//
// **Controller** uses Graph to:
//   - Expand stale nodes into everything that must be rebuilt: RecursiveConsequencesOf()
//
// # Thread-Safety
//
// Implementations delegate to a thread-safe topology store, so single calls
// are safe for concurrent use. Sequences of calls are not atomic.
type Graph interface {
	// AddNode registers a node with no edges. Idempotent.
	AddNode(ctx context.Context, id *nodeid.Address) error

	// AddEdge inserts the directed edge from -> to. Idempotent; either
	// endpoint is created if absent. Self-edges are accepted.
	AddEdge(ctx context.Context, from, to *nodeid.Address) error

	// RemoveEdge deletes the edge from -> to if present. No-op otherwise;
	// never deletes nodes.
	RemoveEdge(ctx context.Context, from, to *nodeid.Address) error

	// ClearDependenciesOf removes every edge (x, id).
	ClearDependenciesOf(ctx context.Context, id *nodeid.Address) error

	// Tasks returns every known node in first-seen order.
	Tasks(ctx context.Context) []*nodeid.Address

	// Edges returns every current (from, to) pair.
	Edges(ctx context.Context) []nodeid.Edge

	// ImmediateConsequencesOf returns every x such that edge (id, x) exists.
	ImmediateConsequencesOf(ctx context.Context, id *nodeid.Address) []*nodeid.Address

	// DependenciesOf returns every x such that edge (x, id) exists.
	DependenciesOf(ctx context.Context, id *nodeid.Address) []*nodeid.Address

	// RecursiveConsequencesOf returns the transitive closure of
	// ImmediateConsequencesOf over the seeds, in dependency order: every node
	// appears after all of its dependencies that are also in the result,
	// unless a cycle makes that impossible. When includeSelf is true every
	// seed is part of the result even if it has no outgoing edges.
	RecursiveConsequencesOf(ctx context.Context, seeds []*nodeid.Address, includeSelf bool) []*nodeid.Address
}
