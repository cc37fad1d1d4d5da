package inmemorytopology

import (
	"context"
	"sort"
	"sync"

	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/specialistvlad/contingent/internal/topologystore"
)

type entry struct {
	addr *nodeid.Address
	seq  int
}

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*entry
	order []*entry
	out   map[string]map[string]struct{} // Key: node ID, Value: set of dependent IDs
	in    map[string]map[string]struct{} // Key: node ID, Value: set of dependency IDs
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes: make(map[string]*entry),
		out:   make(map[string]map[string]struct{}),
		in:    make(map[string]map[string]struct{}),
	}
}

// ensure registers a node if absent. Callers must hold the write lock.
func (s *Store) ensure(id *nodeid.Address) string {
	key := id.Key()
	if _, exists := s.nodes[key]; exists {
		return key
	}
	e := &entry{addr: id, seq: len(s.order)}
	s.nodes[key] = e
	s.order = append(s.order, e)
	return key
}

// AddNode adds a node to the store.
func (s *Store) AddNode(ctx context.Context, id *nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(id)
	return nil
}

// AddEdge creates a directed edge, registering missing endpoints.
func (s *Store) AddEdge(ctx context.Context, from, to *nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := s.ensure(from)
	toKey := s.ensure(to)

	if s.out[fromKey] == nil {
		s.out[fromKey] = make(map[string]struct{})
	}
	if s.in[toKey] == nil {
		s.in[toKey] = make(map[string]struct{})
	}
	s.out[fromKey][toKey] = struct{}{}
	s.in[toKey][fromKey] = struct{}{}
	return nil
}

// RemoveEdge deletes an edge if present.
func (s *Store) RemoveEdge(ctx context.Context, from, to *nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := from.Key()
	toKey := to.Key()
	delete(s.out[fromKey], toKey)
	delete(s.in[toKey], fromKey)
	return nil
}

// HasNode reports whether the node is known.
func (s *Store) HasNode(ctx context.Context, id *nodeid.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.nodes[id.Key()]
	return ok
}

// AllNodes returns a snapshot of all nodes in first-seen order.
func (s *Store) AllNodes(ctx context.Context) []*nodeid.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*nodeid.Address, 0, len(s.order))
	for _, e := range s.order {
		nodes = append(nodes, e.addr)
	}
	return nodes
}

// AllEdges returns a snapshot of all edges.
func (s *Store) AllEdges(ctx context.Context) []nodeid.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var edges []nodeid.Edge
	for _, from := range s.order {
		for _, to := range s.sorted(s.out[from.addr.Key()]) {
			edges = append(edges, nodeid.Edge{From: from.addr, To: to})
		}
	}
	return edges
}

// Outgoing returns the dependents of a node.
func (s *Store) Outgoing(ctx context.Context, id *nodeid.Address) []*nodeid.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(s.out[id.Key()])
}

// Incoming returns the dependencies of a node.
func (s *Store) Incoming(ctx context.Context, id *nodeid.Address) []*nodeid.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(s.in[id.Key()])
}

// sorted resolves a key set into addresses in first-seen order. Callers must
// hold at least the read lock.
func (s *Store) sorted(set map[string]struct{}) []*nodeid.Address {
	entries := make([]*entry, 0, len(set))
	for key := range set {
		entries = append(entries, s.nodes[key])
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]*nodeid.Address, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.addr)
	}
	return out
}
