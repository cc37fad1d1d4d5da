package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/graph"
	"github.com/specialistvlad/contingent/internal/node"
	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/specialistvlad/contingent/internal/nodestore"
)

var (
	// ErrDuplicateTask is returned when a task name is registered twice.
	ErrDuplicateTask = errors.New("task already registered")
	// ErrArity is returned when a task is called with the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrCycle is returned when a task calls itself, directly or indirectly,
	// with the same arguments.
	ErrCycle = errors.New("task cycle")
	// ErrUnknownTask is returned when recomputing a node no task call ever created.
	ErrUnknownTask = errors.New("unknown task")
)

// Variadic is the arity of a task that accepts any number of arguments.
const Variadic = -1

// Func is the signature of a task body. Args are the positional arguments
// the task was called with; ctx carries the execution-context stack and
// must be passed to any nested task call.
type Func func(ctx context.Context, args ...any) (any, error)

// Observer is notified of every task call. depth is 0 for top-level calls.
type Observer interface {
	TaskCalled(depth int, addr *nodeid.Address, cached bool)
}

// Definition is a registered task: a name, an arity and the wrapped function.
type Definition struct {
	name     string
	arity    int
	fn       Func
	registry *Registry
}

// Name returns the task name.
func (d *Definition) Name() string { return d.name }

// Arity returns the number of arguments the task takes, or Variadic.
func (d *Definition) Arity() int { return d.arity }

// Call invokes the task through the registry's cache.
func (d *Definition) Call(ctx context.Context, args ...any) (any, error) {
	return d.registry.call(ctx, d, args)
}

// Handle binds the task to concrete arguments without calling it.
func (d *Definition) Handle(args ...any) Handle {
	return Handle{Def: d, Args: args}
}

// Handle binds a task definition to concrete arguments. It addresses exactly
// one node.
type Handle struct {
	Def  *Definition
	Args []any
}

// Address returns the node address of the handle.
func (h Handle) Address() (*nodeid.Address, error) {
	if h.Def == nil {
		return nil, fmt.Errorf("handle has no task definition")
	}
	return nodeid.New(h.Def.name, h.Args...)
}

// String renders the handle as a call, e.g. `read("f.md")`.
func (h Handle) String() string {
	addr, err := h.Address()
	if err != nil {
		return "<invalid handle>"
	}
	return addr.String()
}

// binding remembers how to re-run a node.
type binding struct {
	def  *Definition
	args []any
}

// Registry holds the task definitions of a single controller together with
// the graph and node store their calls populate.
type Registry struct {
	graph graph.Graph
	nodes nodestore.Store

	mu       sync.RWMutex
	defs     map[string]*Definition
	bindings map[string]binding
	observer Observer
}

// New creates a registry that records edges in g and cache state in ns.
func New(g graph.Graph, ns nodestore.Store) *Registry {
	return &Registry{
		graph:    g,
		nodes:    ns,
		defs:     make(map[string]*Definition),
		bindings: make(map[string]binding),
	}
}

// Register wraps fn as a memoized task. arity is the exact number of
// positional arguments the task accepts, or Variadic.
func (r *Registry) Register(name string, arity int, fn Func) (*Definition, error) {
	if err := nodeid.ValidateName(name); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("task %q: nil function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	def := &Definition{name: name, arity: arity, fn: fn, registry: r}
	r.defs[name] = def
	return def, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// SetObserver installs o as the call observer. A nil observer disables it.
func (r *Registry) SetObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = o
}

// Bound reports whether a task call has ever addressed the node.
func (r *Registry) Bound(addr *nodeid.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[addr.Key()]
	return ok
}

// Node returns the cache state of a node.
func (r *Registry) Node(ctx context.Context, addr *nodeid.Address) (*node.Node, bool) {
	return r.nodes.Get(ctx, addr)
}

// Recompute re-executes the body of a node regardless of its cache state.
// The call is not attributed to any running task.
func (r *Registry) Recompute(ctx context.Context, addr *nodeid.Address) (any, error) {
	r.mu.RLock()
	b, ok := r.bindings[addr.Key()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, addr)
	}

	ctx = detach(ctx)
	n := r.nodes.Ensure(ctx, addr)
	n.RecordInvocation()
	r.notify(0, addr, false)
	return r.execute(ctx, n, b.def, b.args)
}

func (r *Registry) call(ctx context.Context, def *Definition, args []any) (any, error) {
	if def.arity != Variadic && len(args) != def.arity {
		return nil, fmt.Errorf("%w: task %q takes %d, got %d", ErrArity, def.name, def.arity, len(args))
	}

	addr, err := nodeid.New(def.name, args...)
	if err != nil {
		return nil, err
	}

	caller := current(ctx, r)
	if caller != nil && caller.contains(addr) {
		return nil, fmt.Errorf("%w: %s calls itself", ErrCycle, addr)
	}

	r.bind(addr, def)
	if err := r.graph.AddNode(ctx, addr); err != nil {
		return nil, err
	}
	depth := 0
	if caller != nil {
		depth = caller.depth + 1
		if err := r.graph.AddEdge(ctx, addr, caller.addr); err != nil {
			return nil, err
		}
	}

	n := r.nodes.Ensure(ctx, addr)
	n.RecordInvocation()

	if value, ok := n.Cached(); ok {
		ctxlog.FromContext(ctx).Debug("Task cache hit.", "task", addr.String())
		r.notify(depth, addr, true)
		return value, nil
	}

	r.notify(depth, addr, false)
	return r.execute(ctx, n, def, addr.Args)
}

// execute runs the body of def with n on top of the stack. A failure is
// returned exactly as the body produced it.
func (r *Registry) execute(ctx context.Context, n *node.Node, def *Definition, args []any) (any, error) {
	addr := n.Address()
	logger := ctxlog.FromContext(ctx)

	// The inputs observed by the previous execution may no longer apply.
	if err := r.graph.ClearDependenciesOf(ctx, addr); err != nil {
		return nil, err
	}

	logger.Debug("Executing task.", "task", addr.String())
	n.RecordExecution()
	value, err := def.fn(push(ctx, r, addr), args...)
	if err != nil {
		n.Fail(err)
		logger.Debug("Task failed.", "task", addr.String(), "error", err)
		return nil, err
	}

	n.Complete(value)
	return value, nil
}

func (r *Registry) bind(addr *nodeid.Address, def *Definition) {
	key := addr.Key()

	r.mu.RLock()
	_, ok := r.bindings[key]
	r.mu.RUnlock()
	if ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[key] = binding{def: def, args: addr.Args}
}

func (r *Registry) notify(depth int, addr *nodeid.Address, cached bool) {
	r.mu.RLock()
	o := r.observer
	r.mu.RUnlock()
	if o != nil {
		o.TaskCalled(depth, addr, cached)
	}
}
