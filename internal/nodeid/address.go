// internal/nodeid/address.go
package nodeid

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// New builds an Address for the given task name and arguments. The task
// name must pass ValidateName and every argument must be encodable by
// msgpack; maps are encoded with sorted keys so structurally equal
// arguments always produce the same key. Keys are value based: pointers
// and structs with fields msgpack skips are rejected with
// ErrUnkeyableArgument. Arguments of different types that encode alike,
// such as int(1) and int64(1), share a key.
func New(task string, args ...any) (*Address, error) {
	if err := ValidateName(task); err != nil {
		return nil, err
	}

	key, err := encodeKey(task, args)
	if err != nil {
		return nil, err
	}

	var copied []any
	if len(args) > 0 {
		copied = make([]any, len(args))
		copy(copied, args)
	}
	return &Address{Task: task, Args: copied, key: key}, nil
}

// MustNew is like New but panics on error. Intended for tests and static
// node names.
func MustNew(task string, args ...any) *Address {
	a, err := New(task, args...)
	if err != nil {
		panic(err)
	}
	return a
}

func encodeKey(task string, args []any) (string, error) {
	if len(args) == 0 {
		return task, nil
	}

	if err := checkArgs(args); err != nil {
		return "", fmt.Errorf("arguments of %q are not usable as a cache key: %w", task, err)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(args); err != nil {
		return "", fmt.Errorf("arguments of %q are not usable as a cache key: %w", task, err)
	}
	return task + "#" + hex.EncodeToString(buf.Bytes()), nil
}

// Key returns the canonical identity of the address. It is safe to use as a
// map key.
func (a *Address) Key() string {
	if a == nil {
		return ""
	}
	if a.key == "" {
		// Addresses built as literals rather than through New.
		key, err := encodeKey(a.Task, a.Args)
		if err != nil {
			return a.String()
		}
		return key
	}
	return a.key
}

// String renders the address the way a call would be written, e.g.
// `markdown.read("notes.md")`. Addresses without arguments render as the bare
// task name.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	if len(a.Args) == 0 {
		return a.Task
	}

	var sb strings.Builder
	sb.WriteString(a.Task)
	sb.WriteRune('(')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := arg.(string); ok {
			sb.WriteString(fmt.Sprintf("%q", s))
			continue
		}
		sb.WriteString(fmt.Sprintf("%v", arg))
	}
	sb.WriteRune(')')
	return sb.String()
}

// Equal reports whether both addresses identify the same node.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Key() == other.Key()
}
