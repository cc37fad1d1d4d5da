package node

import (
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/contingent/internal/nodeid"
)

// Node is a single vertex in the dependency graph, representing the cache
// entry of one task invocation.
type Node struct {
	// id is the unique, structured identifier for the node.
	id *nodeid.Address

	// --- Internal state management ---

	mu sync.Mutex
	// value is the last successfully computed result.
	value    any
	hasValue bool
	// stale marks value as untrustworthy until the node is recomputed.
	stale bool
	state State
	// err is the failure of the most recent execution, if it failed.
	err error

	// invocations counts every call addressed to this node, hit or miss.
	invocations atomic.Int64
	// executions counts how many times the task body actually ran.
	executions atomic.Int64
}

// New creates a node in the Unbuilt state.
func New(id *nodeid.Address) *Node {
	return &Node{id: id, state: Unbuilt}
}

// ID returns the canonical key of the node's address.
func (n *Node) ID() string {
	return n.id.Key()
}

// Address returns the structured address of the node.
func (n *Node) Address() *nodeid.Address {
	return n.id
}

// State represents the lifecycle state of a node.
type State int32

const (
	// Unbuilt indicates the node has never completed successfully.
	Unbuilt State = iota
	// Fresh indicates the cached value is trustworthy.
	Fresh
	// Stale indicates the node was invalidated and awaits recomputation.
	Stale
	// Failed indicates the most recent execution returned an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cached returns the cached value if it exists and is not stale.
func (n *Node) Cached() (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.hasValue || n.stale {
		return nil, false
	}
	return n.value, true
}

// Value returns the last computed value regardless of staleness.
func (n *Node) Value() (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value, n.hasValue
}

// IsStale reports whether the node is marked stale.
func (n *Node) IsStale() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stale
}

// GetState returns the node's lifecycle state.
func (n *Node) GetState() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Err returns the error of the most recent failed execution, or nil.
func (n *Node) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

// Complete records a successful execution: the value is cached and the
// staleness flag is cleared.
func (n *Node) Complete(value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.value = value
	n.hasValue = true
	n.stale = false
	n.state = Fresh
	n.err = nil
}

// Fail records a failed execution. Neither the cached value nor the
// staleness flag changes.
func (n *Node) Fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = Failed
	n.err = err
}

// MarkStale flags the node for recomputation. It returns false if the node
// was already stale.
func (n *Node) MarkStale() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stale {
		return false
	}
	n.stale = true
	if n.state != Failed {
		n.state = Stale
	}
	return true
}

// RecordInvocation atomically increments the invocation counter and returns
// the new value.
func (n *Node) RecordInvocation() int64 {
	return n.invocations.Add(1)
}

// Invocations atomically returns the number of calls addressed to the node.
func (n *Node) Invocations() int64 {
	return n.invocations.Load()
}

// RecordExecution atomically increments the execution counter and returns
// the new value.
func (n *Node) RecordExecution() int64 {
	return n.executions.Add(1)
}

// Executions atomically returns how many times the task body ran.
func (n *Node) Executions() int64 {
	return n.executions.Load()
}
