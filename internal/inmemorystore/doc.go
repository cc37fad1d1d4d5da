// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Purpose
//
// This package implements the node cache store for a single controller. It
// keeps every node created by a task call in memory for the lifetime of the
// controller; nothing is persisted across restarts.
//
// # Characteristics
//
//   - **Ephemeral:** Created fresh for each controller, not persistent
//   - **Thread-Safe:** The index is guarded by a RWMutex; node fields are
//     guarded by the node itself
//   - **Ordered:** Nodes are returned in creation order, so stale scans and
//     status reports are deterministic
//   - **Fast Lookups:** O(1) average case lookup by canonical key
package inmemorystore
