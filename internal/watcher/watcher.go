// Package watcher polls source files for modification and drives the
// invalidate + rebuild cycle of a controller.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/fsutil"
	"github.com/specialistvlad/contingent/internal/notify"
	"github.com/specialistvlad/contingent/internal/registry"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = time.Second

// Invalidator is the part of engine.Controller the watcher depends on.
type Invalidator interface {
	Invalidate(ctx context.Context, h registry.Handle) (bool, error)
	Rebuild(ctx context.Context) error
}

// Target ties a watched path to the task handle that reads it.
type Target struct {
	Path   string
	Handle registry.Handle
}

// StatFunc reports a file's modification time.
type StatFunc func(path string) (time.Time, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithStat replaces the mtime lookup, mainly for tests.
func WithStat(stat StatFunc) Option {
	return func(w *Watcher) { w.stat = stat }
}

// WithNotifier sets where rebuild events are sent.
func WithNotifier(n notify.Notifier) Option {
	return func(w *Watcher) { w.notifier = n }
}

// Watcher remembers the last seen mtime of every target. It is driven from a
// single goroutine and is not safe for concurrent use.
type Watcher struct {
	controller Invalidator
	targets    []Target
	interval   time.Duration
	stat       StatFunc
	notifier   notify.Notifier
	seen       map[string]time.Time
}

// New creates a watcher over targets.
func New(controller Invalidator, targets []Target, opts ...Option) *Watcher {
	w := &Watcher{
		controller: controller,
		targets:    targets,
		interval:   DefaultInterval,
		stat:       fsutil.ModTime,
		notifier:   notify.Log{},
		seen:       make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Interval returns the polling period.
func (w *Watcher) Interval() time.Duration { return w.interval }

// Prime records the current mtime of every target without triggering a
// rebuild. Missing files are skipped and count as changed once they appear.
func (w *Watcher) Prime(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, t := range w.targets {
		mt, err := w.stat(t.Path)
		if err != nil {
			logger.Warn("Cannot stat watched file.", "path", t.Path, "error", err)
			continue
		}
		w.seen[t.Path] = mt
	}
	logger.Debug("Watcher primed.", "targets", len(w.targets))
}

// Poll runs one check. Targets whose mtime moved are invalidated, then the
// controller rebuilds once. It returns the changed paths and the rebuild
// error, if any. A file that vanished keeps its previous mtime and is
// reported with a warning.
func (w *Watcher) Poll(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var changed []string
	var dirty []Target
	for _, t := range w.targets {
		mt, err := w.stat(t.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Watched file is missing.", "path", t.Path)
			} else {
				logger.Warn("Cannot stat watched file.", "path", t.Path, "error", err)
			}
			continue
		}
		prev, ok := w.seen[t.Path]
		if ok && prev.Equal(mt) {
			continue
		}
		w.seen[t.Path] = mt
		changed = append(changed, t.Path)
		dirty = append(dirty, t)
	}
	if len(dirty) == 0 {
		return nil, nil
	}

	start := time.Now()
	for _, t := range dirty {
		if _, err := w.controller.Invalidate(ctx, t.Handle); err != nil {
			return changed, err
		}
	}
	logger.Info("Change detected.", "paths", changed)

	err := w.controller.Rebuild(ctx)
	ev := notify.Event{Changed: changed, At: start, Duration: time.Since(start), Err: err}
	if nerr := w.notifier.Notify(ctx, ev); nerr != nil {
		logger.Warn("Notification failed.", "error", nerr)
	}
	return changed, err
}

// Run polls until ctx is cancelled. Rebuild failures are logged and
// polling continues, so fixing the source recovers on the next change.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Watching for changes.", "targets", len(w.targets), "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped.")
			return nil
		case <-ticker.C:
			if _, err := w.Poll(ctx); err != nil {
				logger.Error("Rebuild after change failed.", "error", err)
			}
		}
	}
}
