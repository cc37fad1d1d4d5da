package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/contingent/internal/node"
	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/specialistvlad/contingent/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The index maps canonical node keys to nodes; order records creation order
// for deterministic iteration.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*node.Node
	order []*node.Node
}

// New creates a new, empty in-memory node store.
func New() nodestore.Store {
	return &Store{nodes: make(map[string]*node.Node)}
}

// Ensure returns the node for id, creating it if needed.
func (s *Store) Ensure(ctx context.Context, id *nodeid.Address) *node.Node {
	key := id.Key()

	s.mu.RLock()
	n, ok := s.nodes[key]
	s.mu.RUnlock()
	if ok {
		return n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[key]; ok {
		return n
	}
	n = node.New(id)
	s.nodes[key] = n
	s.order = append(s.order, n)
	return n
}

// Get retrieves a node by address.
func (s *Store) Get(ctx context.Context, id *nodeid.Address) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id.Key()]
	return n, ok
}

// AllNodes returns a snapshot of all nodes.
func (s *Store) AllNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*node.Node, len(s.order))
	copy(out, s.order)
	return out
}

// StaleNodes returns a snapshot of the nodes marked stale.
func (s *Store) StaleNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*node.Node
	for _, n := range s.order {
		if n.IsStale() {
			out = append(out, n)
		}
	}
	return out
}
