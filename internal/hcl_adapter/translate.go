package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/specialistvlad/contingent/internal/config"
	"github.com/specialistvlad/contingent/internal/ctxlog"
)

// translateFile converts the HCL schema of one file into the agnostic model.
func translateFile(ctx context.Context, dir string, root *fileRoot) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}

	if s := root.Settings; s != nil {
		if s.PollInterval != "" {
			d, err := time.ParseDuration(s.PollInterval)
			if err != nil {
				return nil, fmt.Errorf("settings: invalid poll_interval %q: %w", s.PollInterval, err)
			}
			if d <= 0 {
				return nil, fmt.Errorf("settings: poll_interval must be positive, got %s", d)
			}
			model.Settings.PollInterval = d
		}
		model.Settings.OutputDir = resolve(dir, s.OutputDir)
	}

	for _, d := range root.Documents {
		if d.Source == "" {
			return nil, fmt.Errorf("document %q: source must not be empty", d.Name)
		}
		logger.Debug("Translating document block.", "document", d.Name)
		model.Documents = append(model.Documents, &config.Document{
			Name:   d.Name,
			Source: resolve(dir, d.Source),
			Output: resolve(dir, d.Output),
		})
	}

	if n := root.Notify; n != nil {
		if n.Kind != "socketio" {
			return nil, fmt.Errorf("notify %q: unsupported kind, only \"socketio\" is available", n.Kind)
		}
		model.Notify = &config.Notify{
			URL:                n.URL,
			Namespace:          n.Namespace,
			Event:              n.Event,
			InsecureSkipVerify: n.InsecureSkipVerify,
		}
	}
	return model, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
