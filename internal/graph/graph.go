package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/specialistvlad/contingent/internal/topologystore"
)

// Manager implements Graph on top of a topology store.
type Manager struct {
	topology topologystore.Store
}

// New creates a new graph manager.
func New(ts topologystore.Store) Graph {
	return &Manager{topology: ts}
}

func (m *Manager) AddNode(ctx context.Context, id *nodeid.Address) error {
	if err := m.topology.AddNode(ctx, id); err != nil {
		return fmt.Errorf("failed to add node %s: %w", id, err)
	}
	return nil
}

func (m *Manager) AddEdge(ctx context.Context, from, to *nodeid.Address) error {
	ctxlog.FromContext(ctx).Debug("Adding edge.", "from", from.String(), "to", to.String())
	if err := m.topology.AddEdge(ctx, from, to); err != nil {
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
	}
	return nil
}

func (m *Manager) RemoveEdge(ctx context.Context, from, to *nodeid.Address) error {
	ctxlog.FromContext(ctx).Debug("Removing edge.", "from", from.String(), "to", to.String())
	if err := m.topology.RemoveEdge(ctx, from, to); err != nil {
		return fmt.Errorf("failed to remove edge %s -> %s: %w", from, to, err)
	}
	return nil
}

func (m *Manager) ClearDependenciesOf(ctx context.Context, id *nodeid.Address) error {
	for _, dep := range m.topology.Incoming(ctx, id) {
		if err := m.RemoveEdge(ctx, dep, id); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) Tasks(ctx context.Context) []*nodeid.Address {
	return m.topology.AllNodes(ctx)
}

func (m *Manager) Edges(ctx context.Context) []nodeid.Edge {
	return m.topology.AllEdges(ctx)
}

func (m *Manager) ImmediateConsequencesOf(ctx context.Context, id *nodeid.Address) []*nodeid.Address {
	return m.topology.Outgoing(ctx, id)
}

func (m *Manager) DependenciesOf(ctx context.Context, id *nodeid.Address) []*nodeid.Address {
	return m.topology.Incoming(ctx, id)
}

// RecursiveConsequencesOf walks the consequences depth-first and returns the
// reverse post-order, which is a topological order whenever the visited
// subgraph is acyclic. Seeds are walked last-to-first so that, between
// unrelated seeds, the output keeps the caller's order.
func (m *Manager) RecursiveConsequencesOf(ctx context.Context, seeds []*nodeid.Address, includeSelf bool) []*nodeid.Address {
	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[string]int)
	emitted := make(map[string]struct{})
	var postorder []*nodeid.Address

	emit := func(id *nodeid.Address) {
		if _, ok := emitted[id.Key()]; ok {
			return
		}
		emitted[id.Key()] = struct{}{}
		postorder = append(postorder, id)
	}

	var visit func(id *nodeid.Address)
	visit = func(id *nodeid.Address) {
		state[id.Key()] = inProgress
		for _, next := range m.topology.Outgoing(ctx, id) {
			switch state[next.Key()] {
			case unvisited:
				visit(next)
				emit(next)
			case done:
				// A seed walked earlier without being emitted is still a
				// consequence of this node.
				emit(next)
			}
		}
		state[id.Key()] = done
	}

	for i := len(seeds) - 1; i >= 0; i-- {
		seed := seeds[i]
		if state[seed.Key()] == unvisited {
			visit(seed)
		}
		if includeSelf {
			emit(seed)
		}
	}

	out := make([]*nodeid.Address, len(postorder))
	for i, id := range postorder {
		out[len(postorder)-1-i] = id
	}

	ctxlog.FromContext(ctx).Debug("Computed recursive consequences.", "seeds", len(seeds), "result", len(out))
	return out
}
