package engine

import (
	"strings"
	"sync"

	"github.com/specialistvlad/contingent/internal/nodeid"
)

// tracer renders task calls as an indented call tree.
type tracer struct {
	mu    sync.Mutex
	lines []string
}

func (t *tracer) TaskCalled(depth int, addr *nodeid.Address, cached bool) {
	verb := "calling"
	if cached {
		verb = "returning cached"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, strings.Repeat(". ", depth)+verb+" "+addr.String())
}

// StartTracing begins recording every task call. Any trace in progress is
// discarded.
func (c *Controller) StartTracing() {
	c.tracer = &tracer{}
	c.registry.SetObserver(c.tracer)
}

// StopTracing stops recording and returns the trace, one call per line.
func (c *Controller) StopTracing() string {
	if c.tracer == nil {
		return ""
	}
	c.registry.SetObserver(nil)

	c.tracer.mu.Lock()
	defer c.tracer.mu.Unlock()
	out := strings.Join(c.tracer.lines, "\n")
	c.tracer = nil
	return out
}
