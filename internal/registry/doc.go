// Package registry turns plain Go functions into memoized tasks.
//
// The Registry is responsible for storing the mapping between task names
// and the Go functions that implement them, and for everything that happens
// when a task is called:
//
//   - the call is addressed to a node keyed by (task name, arguments)
//   - the node's invocation counter is incremented
//   - a fresh cached value is returned without running the body
//   - otherwise the body runs with the node pushed onto the execution-context
//     stack carried in ctx, and the result is cached
//
// Every registered call made while another task's body is running records an
// edge (callee, caller) in the dependency graph. The stack lives in the
// context passed down the call chain, never in package state, so several
// registries can coexist in one process without interfering.
package registry
