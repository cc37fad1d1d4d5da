package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl files or directories
	Sources     []string // markdown files or directories

	OutputDir    string
	PollInterval time.Duration
	Once         bool
	NotifyURL    string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 && len(cfg.Sources) == 0 {
		return nil, errors.New("either a configuration file or a Markdown source is required")
	}
	if cfg.PollInterval < 0 {
		return nil, errors.New("poll interval cannot be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("healthcheck port must be between 0 and 65535")
	}
	return &cfg, nil
}
