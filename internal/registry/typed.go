package registry

import (
	"context"
	"fmt"
)

// Task1 is a memoized task taking one argument.
type Task1[A, R any] struct {
	def *Definition
}

// Define1 registers a typed single-argument task.
func Define1[A, R any](r *Registry, name string, fn func(ctx context.Context, a A) (R, error)) (*Task1[A, R], error) {
	def, err := r.Register(name, 1, func(ctx context.Context, args ...any) (any, error) {
		a, ok := args[0].(A)
		if !ok {
			return nil, fmt.Errorf("task %q: argument has type %T", name, args[0])
		}
		return fn(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return &Task1[A, R]{def: def}, nil
}

// Call invokes the task through the cache.
func (t *Task1[A, R]) Call(ctx context.Context, a A) (R, error) {
	return result[R](t.def.Call(ctx, a))
}

// Handle addresses the node for a.
func (t *Task1[A, R]) Handle(a A) Handle { return t.def.Handle(a) }

// Definition returns the untyped definition.
func (t *Task1[A, R]) Definition() *Definition { return t.def }

// Task2 is a memoized task taking two arguments.
type Task2[A, B, R any] struct {
	def *Definition
}

// Define2 registers a typed two-argument task.
func Define2[A, B, R any](r *Registry, name string, fn func(ctx context.Context, a A, b B) (R, error)) (*Task2[A, B, R], error) {
	def, err := r.Register(name, 2, func(ctx context.Context, args ...any) (any, error) {
		a, ok := args[0].(A)
		if !ok {
			return nil, fmt.Errorf("task %q: first argument has type %T", name, args[0])
		}
		b, ok := args[1].(B)
		if !ok {
			return nil, fmt.Errorf("task %q: second argument has type %T", name, args[1])
		}
		return fn(ctx, a, b)
	})
	if err != nil {
		return nil, err
	}
	return &Task2[A, B, R]{def: def}, nil
}

// Call invokes the task through the cache.
func (t *Task2[A, B, R]) Call(ctx context.Context, a A, b B) (R, error) {
	return result[R](t.def.Call(ctx, a, b))
}

// Handle addresses the node for (a, b).
func (t *Task2[A, B, R]) Handle(a A, b B) Handle { return t.def.Handle(a, b) }

// Definition returns the untyped definition.
func (t *Task2[A, B, R]) Definition() *Definition { return t.def }

func result[R any](v any, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	r, ok := v.(R)
	if !ok {
		return zero, fmt.Errorf("task returned %T, want %T", v, zero)
	}
	return r, nil
}
