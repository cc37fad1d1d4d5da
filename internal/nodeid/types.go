// internal/nodeid/types.go
package nodeid

// Address is the structured representation of a unique node identifier:
// a task name plus the positional arguments it was invoked with.
type Address struct {
	Task string
	Args []any

	// key is the canonical identity, computed once by New.
	key string
}

// Edge is a directed pair of node addresses. By convention From is the
// dependency and To is the dependent that consumed it.
type Edge struct {
	From *Address
	To   *Address
}
