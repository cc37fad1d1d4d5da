package config

import (
	"fmt"
	"time"
)

// Model is the unified, format-agnostic representation of a site
// configuration.
type Model struct {
	Settings  Settings
	Documents []*Document
	Notify    *Notify
}

// Settings holds the global options of a configuration.
type Settings struct {
	// PollInterval is how often sources are checked. Zero means the default.
	PollInterval time.Duration
	// OutputDir is where documents without an explicit output are written.
	OutputDir string
}

// Document is one Markdown source and the HTML file it is published to.
type Document struct {
	Name   string
	Source string
	// Output may be empty, in which case it is derived from Source.
	Output string
}

// Notify configures the live-reload emitter.
type Notify struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Merge folds other into m. Documents are appended; scalar settings from
// other win when set. Two documents sharing a name is an error.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.Settings.PollInterval > 0 {
		m.Settings.PollInterval = other.Settings.PollInterval
	}
	if other.Settings.OutputDir != "" {
		m.Settings.OutputDir = other.Settings.OutputDir
	}
	if other.Notify != nil {
		m.Notify = other.Notify
	}

	names := make(map[string]struct{}, len(m.Documents))
	for _, d := range m.Documents {
		names[d.Name] = struct{}{}
	}
	for _, d := range other.Documents {
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("document %q is defined more than once", d.Name)
		}
		names[d.Name] = struct{}{}
		m.Documents = append(m.Documents, d)
	}
	return nil
}
