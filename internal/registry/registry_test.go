package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/specialistvlad/contingent/internal/graph"
	"github.com/specialistvlad/contingent/internal/inmemorystore"
	"github.com/specialistvlad/contingent/internal/inmemorytopology"
	"github.com/specialistvlad/contingent/internal/node"
	"github.com/specialistvlad/contingent/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, graph.Graph) {
	g := graph.New(inmemorytopology.New())
	return New(g, inmemorystore.New()), g
}

func edgeNames(edges []nodeid.Edge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.From.String()+"->"+e.To.String())
	}
	return out
}

func mustNode(t *testing.T, r *Registry, addr *nodeid.Address) *node.Node {
	t.Helper()
	n, ok := r.Node(context.Background(), addr)
	require.True(t, ok, "node %s not found", addr)
	return n
}

func TestCall_Memoizes(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	runs := 0
	square, err := r.Register("square", 1, func(ctx context.Context, args ...any) (any, error) {
		runs++
		n := args[0].(int)
		return []int{n * n}, nil
	})
	require.NoError(t, err)

	first, err := square.Call(ctx, 5)
	require.NoError(t, err)
	second, err := square.Call(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, runs, "body must run once")
	assert.Equal(t, []int{25}, first)
	assert.Same(t, &first.([]int)[0], &second.([]int)[0], "hit must return the identical cached value")

	n := mustNode(t, r, nodeid.MustNew("square", 5))
	assert.Equal(t, int64(2), n.Invocations())
	assert.Equal(t, int64(1), n.Executions())
	assert.Equal(t, node.Fresh, n.GetState())
}

func TestCall_DistinctArgumentsAreDistinctNodes(t *testing.T) {
	r, g := newTestRegistry()
	ctx := context.Background()

	runs := 0
	double, err := r.Register("double", 1, func(ctx context.Context, args ...any) (any, error) {
		runs++
		return args[0].(int) * 2, nil
	})
	require.NoError(t, err)

	for _, arg := range []int{1, 2, 1, 2} {
		_, err := double.Call(ctx, arg)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, runs)
	assert.Len(t, g.Tasks(ctx), 2)
}

func TestCall_RecordsNestedCallsAsEdges(t *testing.T) {
	r, g := newTestRegistry()
	ctx := context.Background()

	read, err := Define1(r, "read", func(ctx context.Context, path string) (string, error) {
		return "# " + path, nil
	})
	require.NoError(t, err)
	convert, err := Define1(r, "convert", func(ctx context.Context, path string) (string, error) {
		text, err := read.Call(ctx, path)
		if err != nil {
			return "", err
		}
		return strings.ToUpper(text), nil
	})
	require.NoError(t, err)

	out, err := convert.Call(ctx, "f.md")
	require.NoError(t, err)
	assert.Equal(t, "# F.MD", out)

	assert.Equal(t, []string{`read("f.md")->convert("f.md")`}, edgeNames(g.Edges(ctx)))

	// A top-level call adds no edge.
	_, err = read.Call(ctx, "f.md")
	require.NoError(t, err)
	assert.Len(t, g.Edges(ctx), 1)
}

func TestCall_FailurePropagatesUnchanged(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	boom := errors.New("boom")
	runs := 0
	flaky, err := r.Register("flaky", 0, func(ctx context.Context, args ...any) (any, error) {
		runs++
		return nil, boom
	})
	require.NoError(t, err)

	_, err = flaky.Call(ctx)
	assert.True(t, err == boom, "error must not be wrapped, got %v", err)

	_, err = flaky.Call(ctx)
	assert.True(t, err == boom)
	assert.Equal(t, 2, runs, "failures are never cached")

	n := mustNode(t, r, nodeid.MustNew("flaky"))
	assert.Equal(t, node.Failed, n.GetState())
	assert.Equal(t, int64(2), n.Invocations())
	_, ok := n.Value()
	assert.False(t, ok)
}

func TestCall_FailingDependencyFailsDependent(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	boom := errors.New("missing file")
	read, err := Define1(r, "read", func(ctx context.Context, path string) (string, error) {
		return "", boom
	})
	require.NoError(t, err)
	convert, err := Define1(r, "convert", func(ctx context.Context, path string) (string, error) {
		return read.Call(ctx, path)
	})
	require.NoError(t, err)

	_, err = convert.Call(ctx, "f.md")
	assert.True(t, err == boom)

	n := mustNode(t, r, nodeid.MustNew("convert", "f.md"))
	assert.Equal(t, node.Failed, n.GetState())
	_, ok := n.Cached()
	assert.False(t, ok)
}

func TestCall_SelfRecursionIsACycle(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	var loop *Definition
	loop, err := r.Register("loop", 1, func(ctx context.Context, args ...any) (any, error) {
		return loop.Call(ctx, args[0])
	})
	require.NoError(t, err)

	_, err = loop.Call(ctx, 1)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestCall_RecursionWithDifferentArguments(t *testing.T) {
	r, g := newTestRegistry()
	ctx := context.Background()

	runs := 0
	var fib *Task1[int, int]
	fib, err := Define1(r, "fib", func(ctx context.Context, n int) (int, error) {
		runs++
		if n <= 1 {
			return n, nil
		}
		a, err := fib.Call(ctx, n-1)
		if err != nil {
			return 0, err
		}
		b, err := fib.Call(ctx, n-2)
		if err != nil {
			return 0, err
		}
		return a + b, nil
	})
	require.NoError(t, err)

	v, err := fib.Call(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 55, v)
	assert.Equal(t, 11, runs, "each fib(n) runs once")
	assert.Len(t, g.Tasks(ctx), 11)
}

func TestRegister_Errors(t *testing.T) {
	r, _ := newTestRegistry()
	noop := func(ctx context.Context, args ...any) (any, error) { return nil, nil }

	_, err := r.Register("task", 0, noop)
	require.NoError(t, err)

	_, err = r.Register("task", 0, noop)
	assert.ErrorIs(t, err, ErrDuplicateTask)

	_, err = r.Register("bad name", 0, noop)
	assert.ErrorIs(t, err, nodeid.ErrInvalidName)

	_, err = r.Register("nil.fn", 0, nil)
	assert.Error(t, err)

	def, ok := r.Lookup("task")
	require.True(t, ok)
	assert.Equal(t, "task", def.Name())
	assert.Equal(t, 0, def.Arity())
}

func TestCall_ArityMismatch(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	pair, err := r.Register("pair", 2, func(ctx context.Context, args ...any) (any, error) { return args, nil })
	require.NoError(t, err)
	anyArgs, err := r.Register("any", Variadic, func(ctx context.Context, args ...any) (any, error) { return len(args), nil })
	require.NoError(t, err)

	_, err = pair.Call(ctx, 1)
	assert.ErrorIs(t, err, ErrArity)

	v, err := anyArgs.Call(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestCall_RegistriesAreIsolated(t *testing.T) {
	r1, g1 := newTestRegistry()
	r2, g2 := newTestRegistry()
	ctx := context.Background()

	inner, err := r2.Register("inner", 0, func(ctx context.Context, args ...any) (any, error) { return 1, nil })
	require.NoError(t, err)
	outer, err := r1.Register("outer", 0, func(ctx context.Context, args ...any) (any, error) {
		return inner.Call(ctx)
	})
	require.NoError(t, err)

	_, err = outer.Call(ctx)
	require.NoError(t, err)

	assert.Empty(t, g1.Edges(ctx), "calls into another registry are not dependencies")
	assert.Empty(t, g2.Edges(ctx))
}

func TestRecompute(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	runs := 0
	count, err := r.Register("count", 0, func(ctx context.Context, args ...any) (any, error) {
		runs++
		return runs, nil
	})
	require.NoError(t, err)

	_, err = count.Call(ctx)
	require.NoError(t, err)

	addr := nodeid.MustNew("count")
	assert.True(t, r.Bound(addr))

	v, err := r.Recompute(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	cached, err := count.Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cached)

	_, err = r.Recompute(ctx, nodeid.MustNew("never.called"))
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestExecute_ClearsPreviousInputs(t *testing.T) {
	r, g := newTestRegistry()
	ctx := context.Background()

	useA := true
	a, err := r.Register("a", 0, func(ctx context.Context, args ...any) (any, error) { return "a", nil })
	require.NoError(t, err)
	b, err := r.Register("b", 0, func(ctx context.Context, args ...any) (any, error) { return "b", nil })
	require.NoError(t, err)
	pick, err := r.Register("pick", 0, func(ctx context.Context, args ...any) (any, error) {
		if useA {
			return a.Call(ctx)
		}
		return b.Call(ctx)
	})
	require.NoError(t, err)

	_, err = pick.Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a->pick"}, edgeNames(g.Edges(ctx)))

	useA = false
	_, err = r.Recompute(ctx, nodeid.MustNew("pick"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b->pick"}, edgeNames(g.Edges(ctx)))
	assert.Len(t, g.Tasks(ctx), 3, "nodes survive edge removal")
}

type recordingObserver struct {
	lines []string
}

func (o *recordingObserver) TaskCalled(depth int, addr *nodeid.Address, cached bool) {
	o.lines = append(o.lines, fmt.Sprintf("%d %s %t", depth, addr, cached))
}

func TestObserver_SeesDepthAndHits(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()
	obs := &recordingObserver{}
	r.SetObserver(obs)

	leaf, err := r.Register("leaf", 0, func(ctx context.Context, args ...any) (any, error) { return 1, nil })
	require.NoError(t, err)
	root, err := r.Register("root", 0, func(ctx context.Context, args ...any) (any, error) {
		if _, err := leaf.Call(ctx); err != nil {
			return nil, err
		}
		return leaf.Call(ctx)
	})
	require.NoError(t, err)

	_, err = root.Call(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"0 root false", "1 leaf false", "1 leaf true"}, obs.lines)
}

func TestTypedTask_Handle(t *testing.T) {
	r, _ := newTestRegistry()
	publish, err := Define2(r, "publish", func(ctx context.Context, src, dst string) (string, error) {
		return dst, nil
	})
	require.NoError(t, err)

	h := publish.Handle("a.md", "a.html")
	addr, err := h.Address()
	require.NoError(t, err)
	assert.Equal(t, `publish("a.md", "a.html")`, addr.String())
	assert.Equal(t, `publish("a.md", "a.html")`, h.String())
	assert.Same(t, publish.Definition(), h.Def)

	out, err := publish.Call(context.Background(), "a.md", "a.html")
	require.NoError(t, err)
	assert.Equal(t, "a.html", out)
}
