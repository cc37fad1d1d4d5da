package registry

import (
	"context"

	"github.com/specialistvlad/contingent/internal/nodeid"
)

// frame is one entry of the execution-context stack: the node whose body is
// currently running.
type frame struct {
	owner  *Registry
	addr   *nodeid.Address
	parent *frame
	depth  int
}

// frameKey is an unexported type to prevent collisions with context keys from other packages.
type frameKey struct{}

// push returns a context whose stack has addr on top.
func push(ctx context.Context, r *Registry, addr *nodeid.Address) context.Context {
	parent := current(ctx, r)
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	return context.WithValue(ctx, frameKey{}, &frame{owner: r, addr: addr, parent: parent, depth: depth})
}

// detach returns a context with an empty stack, used when a call must not be
// attributed to whatever task is running.
func detach(ctx context.Context) context.Context {
	return context.WithValue(ctx, frameKey{}, (*frame)(nil))
}

// current returns the top of the stack if it belongs to r.
func current(ctx context.Context, r *Registry) *frame {
	f, _ := ctx.Value(frameKey{}).(*frame)
	if f == nil || f.owner != r {
		return nil
	}
	return f
}

// contains reports whether addr is anywhere on the stack.
func (f *frame) contains(addr *nodeid.Address) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.addr.Equal(addr) {
			return true
		}
	}
	return false
}
