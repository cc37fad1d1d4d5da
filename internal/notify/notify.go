// Package notify delivers rebuild events to interested parties: the log,
// and optionally a socket.io server that reloads browser previews.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/contingent/internal/ctxlog"
)

// Event describes one invalidate + rebuild cycle.
type Event struct {
	// Changed lists the source paths whose modification triggered the cycle.
	Changed  []string
	At       time.Time
	Duration time.Duration
	// Err is the rebuild failure, if any.
	Err error
}

// Notifier receives rebuild events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Log reports events through the context logger.
type Log struct{}

func (Log) Notify(ctx context.Context, ev Event) error {
	logger := ctxlog.FromContext(ctx)
	if ev.Err != nil {
		logger.Error("Rebuild failed.", "changed", ev.Changed, "error", ev.Err)
		return nil
	}
	logger.Info("Rebuild complete.", "changed", ev.Changed, "duration", ev.Duration)
	return nil
}

// Multi fans an event out to every notifier. All notifiers run even if some
// fail; their errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Payload is the wire representation of an event.
func Payload(ev Event) map[string]any {
	p := map[string]any{
		"changed":     ev.Changed,
		"at":          ev.At.UTC().Format(time.RFC3339),
		"duration_ms": ev.Duration.Milliseconds(),
		"ok":          ev.Err == nil,
	}
	if ev.Err != nil {
		p["error"] = ev.Err.Error()
	}
	return p
}
