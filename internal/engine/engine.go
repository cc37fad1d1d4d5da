package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/graph"
	"github.com/specialistvlad/contingent/internal/inmemorystore"
	"github.com/specialistvlad/contingent/internal/inmemorytopology"
	"github.com/specialistvlad/contingent/internal/node"
	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/specialistvlad/contingent/internal/nodestore"
	"github.com/specialistvlad/contingent/internal/registry"
	"github.com/specialistvlad/contingent/internal/topologystore"
)

// ErrRebuildInProgress is returned when Rebuild is entered while another
// rebuild on the same controller has not finished.
var ErrRebuildInProgress = errors.New("rebuild already in progress")

// RebuildError reports the node whose recomputation stopped a rebuild.
type RebuildError struct {
	Task *nodeid.Address
	Err  error
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("rebuild stopped at %s: %v", e.Task, e.Err)
}

func (e *RebuildError) Unwrap() error { return e.Err }

// Module is implemented by packages that contribute tasks to a controller.
type Module interface {
	Register(c *Controller) error
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	topology topologystore.Store
	nodes    nodestore.Store
}

// WithTopologyStore replaces the default in-memory topology store.
func WithTopologyStore(s topologystore.Store) Option {
	return func(o *options) { o.topology = s }
}

// WithNodeStore replaces the default in-memory node store.
func WithNodeStore(s nodestore.Store) Option {
	return func(o *options) { o.nodes = s }
}

// Controller owns one graph and one registry.
type Controller struct {
	graph    graph.Graph
	nodes    nodestore.Store
	registry *registry.Registry

	rebuilding bool
	tracer     *tracer
}

// New creates a controller with its own stores.
func New(opts ...Option) *Controller {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.topology == nil {
		o.topology = inmemorytopology.New()
	}
	if o.nodes == nil {
		o.nodes = inmemorystore.New()
	}

	g := graph.New(o.topology)
	return &Controller{
		graph:    g,
		nodes:    o.nodes,
		registry: registry.New(g, o.nodes),
	}
}

// Task registers fn as a memoized task. It is the public entry point for
// turning a function into a task.
func (c *Controller) Task(name string, arity int, fn registry.Func) (*registry.Definition, error) {
	return c.registry.Register(name, arity, fn)
}

// Use registers every module's tasks on the controller.
func (c *Controller) Use(mods ...Module) error {
	for _, m := range mods {
		if err := m.Register(c); err != nil {
			return fmt.Errorf("failed to register module %T: %w", m, err)
		}
	}
	return nil
}

// Task builds the handle addressing def called with args.
func Task(def *registry.Definition, args ...any) registry.Handle {
	return def.Handle(args...)
}

// Define1 registers a typed single-argument task on c.
func Define1[A, R any](c *Controller, name string, fn func(ctx context.Context, a A) (R, error)) (*registry.Task1[A, R], error) {
	return registry.Define1(c.registry, name, fn)
}

// Define2 registers a typed two-argument task on c.
func Define2[A, B, R any](c *Controller, name string, fn func(ctx context.Context, a A, b B) (R, error)) (*registry.Task2[A, B, R], error) {
	return registry.Define2(c.registry, name, fn)
}

// Graph exposes the dependency graph.
func (c *Controller) Graph() graph.Graph { return c.graph }

// Registry exposes the task registry.
func (c *Controller) Registry() *registry.Registry { return c.registry }

// Node returns the cache state of the node addressed by h.
func (c *Controller) Node(ctx context.Context, h registry.Handle) (*node.Node, bool) {
	addr, err := h.Address()
	if err != nil {
		return nil, false
	}
	return c.nodes.Get(ctx, addr)
}

// Nodes returns every node created so far, in creation order.
func (c *Controller) Nodes(ctx context.Context) []*node.Node {
	return c.nodes.AllNodes(ctx)
}

// Stale returns the addresses of every node currently marked stale.
func (c *Controller) Stale(ctx context.Context) []*nodeid.Address {
	stale := c.nodes.StaleNodes(ctx)
	out := make([]*nodeid.Address, 0, len(stale))
	for _, n := range stale {
		out = append(out, n.Address())
	}
	return out
}

// Invalidate marks the node addressed by h stale, together with all of its
// recursive consequences, without recomputing anything. Calling the node
// directly before the next Rebuild therefore cannot leave its dependents
// serving values derived from the old result. It reports whether the node
// exists; invalidating a node no call has created yet is a no-op.
// Invalidating an already stale node is a no-op too.
func (c *Controller) Invalidate(ctx context.Context, h registry.Handle) (bool, error) {
	addr, err := h.Address()
	if err != nil {
		return false, fmt.Errorf("failed to invalidate %s: %w", h, err)
	}
	logger := ctxlog.FromContext(ctx)

	n, ok := c.nodes.Get(ctx, addr)
	if !ok {
		logger.Debug("Invalidate ignored: task never ran.", "task", addr.String())
		return false, nil
	}
	if n.MarkStale() {
		logger.Debug("Task invalidated.", "task", addr.String())
	}

	marked := 0
	for _, dep := range c.graph.RecursiveConsequencesOf(ctx, []*nodeid.Address{addr}, false) {
		if dn, ok := c.nodes.Get(ctx, dep); ok && dn.MarkStale() {
			marked++
		}
	}
	if marked > 0 {
		logger.Debug("Consequences invalidated.", "task", addr.String(), "count", marked)
	}
	return true, nil
}

// Rebuild recomputes every stale node and all of its recursive consequences
// in dependency order. Recomputation is unconditional. The first failure
// stops the rebuild and is returned as a *RebuildError; nodes not yet
// recomputed stay stale, as they do when ctx is cancelled midway. Every
// consequence of a stale node is marked stale before recomputation starts,
// so a failed rebuild intentionally leaves those consequences stale even if
// they were fresh when it began. With nothing stale, Rebuild is a no-op.
func (c *Controller) Rebuild(ctx context.Context) error {
	if c.rebuilding {
		return ErrRebuildInProgress
	}
	c.rebuilding = true
	defer func() { c.rebuilding = false }()

	logger := ctxlog.FromContext(ctx)
	seeds := c.Stale(ctx)
	if len(seeds) == 0 {
		logger.Debug("Nothing to rebuild.")
		return nil
	}

	order := c.graph.RecursiveConsequencesOf(ctx, seeds, true)
	for _, addr := range order {
		if n, ok := c.nodes.Get(ctx, addr); ok {
			n.MarkStale()
		}
	}
	logger.Info("Rebuild started.", "stale", len(seeds), "affected", len(order))

	start := time.Now()
	recomputed := 0
	for _, addr := range order {
		if err := ctx.Err(); err != nil {
			logger.Warn("Rebuild cancelled.", "recomputed", recomputed)
			return err
		}
		n, ok := c.nodes.Get(ctx, addr)
		if !ok || !n.IsStale() {
			// Either a structural node with no task behind it, or a node
			// already recomputed as a dependency of an earlier one.
			continue
		}
		if !c.registry.Bound(addr) {
			logger.Warn("Skipping stale node with no task binding.", "task", addr.String())
			continue
		}
		if _, err := c.registry.Recompute(ctx, addr); err != nil {
			logger.Error("Rebuild stopped.", "task", addr.String(), "error", err)
			return &RebuildError{Task: addr, Err: err}
		}
		recomputed++
	}

	logger.Info("Rebuild finished.", "recomputed", recomputed, "duration", time.Since(start))
	return nil
}
