package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/specialistvlad/contingent/internal/config"
	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/engine"
	"github.com/specialistvlad/contingent/internal/notify"
	"github.com/specialistvlad/contingent/internal/watcher"
	"github.com/specialistvlad/contingent/modules/publish"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	controller *engine.Controller
	publish    *publish.Module
	jobs       []Job
	httpServer *http.Server
	closers    []io.Closer
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger and controller. Configuration errors
// are fatal and panic; the entrypoint recovers them.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{}
	if len(cfg.ConfigPaths) > 0 {
		loaded, err := loader.Load(ctx, cfg.ConfigPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model = loaded
	}
	logger.Debug("Configuration loaded.", "documents", len(model.Documents))

	outDir := model.Settings.OutputDir
	if cfg.OutputDir != "" {
		outDir = cfg.OutputDir
	}
	jobs, err := resolveJobs(model.Documents, cfg.Sources, outDir)
	if err != nil {
		panic(fmt.Errorf("failed to resolve documents: %w", err))
	}

	controller := engine.New()
	mod := &publish.Module{}
	if err := controller.Use(mod); err != nil {
		panic(fmt.Errorf("failed to register tasks: %w", err))
	}
	logger.Debug("Publishing tasks registered.", "jobs", len(jobs))

	return &App{
		ctx:        ctx,
		outW:       outW,
		logger:     logger,
		config:     cfg,
		model:      model,
		controller: controller,
		publish:    mod,
		jobs:       jobs,
	}
}

// Controller returns the application's controller. This is primarily for testing.
func (a *App) Controller() *engine.Controller {
	return a.controller
}

// Jobs returns the resolved publishing jobs.
func (a *App) Jobs() []Job {
	return a.jobs
}

// Build publishes every job through the task cache. A failing job does not
// stop the others; all failures are joined.
func (a *App) Build(ctx context.Context) error {
	var errs []error
	for _, j := range a.jobs {
		if _, err := a.publish.Write.Call(ctx, j.Source, j.Output); err != nil {
			ctxlog.FromContext(ctx).Error("Publishing failed.", "document", j.Name, "error", err)
			errs = append(errs, fmt.Errorf("document %s: %w", j.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Run builds every document once and, unless configured for a single pass,
// keeps watching the sources until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")
	defer a.Close()

	a.healthCheckServer()

	w := watcher.New(a.controller, a.targets(),
		watcher.WithInterval(a.pollInterval()),
		watcher.WithNotifier(a.newNotifier(ctx)),
	)
	w.Prime(ctx)

	a.logger.Info("🚀 Publishing documents...", "count", len(a.jobs))
	if err := a.Build(ctx); err != nil {
		if a.config.Once {
			return fmt.Errorf("build failed: %w", err)
		}
		a.logger.Warn("Initial build incomplete, waiting for changes.")
	}
	if a.config.Once {
		a.logger.Info("🏁 Build finished.")
		return nil
	}

	return w.Run(ctx)
}

// Close releases notifier connections and stops the health check server.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	errs = append(errs, a.closeHealthCheckServer())
	return errors.Join(errs...)
}

// targets returns one watch target per distinct source.
func (a *App) targets() []watcher.Target {
	seen := make(map[string]struct{}, len(a.jobs))
	var targets []watcher.Target
	for _, j := range a.jobs {
		if _, dup := seen[j.Source]; dup {
			continue
		}
		seen[j.Source] = struct{}{}
		targets = append(targets, watcher.Target{Path: j.Source, Handle: a.publish.Read.Handle(j.Source)})
	}
	return targets
}

func (a *App) pollInterval() time.Duration {
	if a.config.PollInterval > 0 {
		return a.config.PollInterval
	}
	if a.model.Settings.PollInterval > 0 {
		return a.model.Settings.PollInterval
	}
	return watcher.DefaultInterval
}

// newNotifier always logs. A live-reload emitter is added when configured
// and reachable; an unreachable server only costs a warning.
func (a *App) newNotifier(ctx context.Context) notify.Notifier {
	notifiers := notify.Multi{notify.Log{}}

	cfg := notify.SocketIOConfig{}
	if n := a.model.Notify; n != nil {
		cfg = notify.SocketIOConfig{URL: n.URL, Namespace: n.Namespace, Event: n.Event, InsecureSkipVerify: n.InsecureSkipVerify}
	}
	if a.config.NotifyURL != "" {
		cfg.URL = a.config.NotifyURL
	}
	if cfg.URL == "" || a.config.Once {
		return notifiers
	}

	sio, err := notify.DialSocketIO(ctx, cfg)
	if err != nil {
		a.logger.Warn("Live-reload disabled.", "error", err)
		return notifiers
	}
	a.closers = append(a.closers, sio)
	return append(notifiers, sio)
}
