package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/contingent/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("contingent", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Contingent - publishes Markdown as HTML and rebuilds only what a change affects.

Usage:
  contingent [options] [SOURCE ...]

Arguments:
  SOURCE
    A Markdown file or a directory searched recursively for .md files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an .hcl site file or a directory of them.")
	cFlag := flagSet.String("c", "", "Path to the site configuration (shorthand).")
	outFlag := flagSet.String("out", "", "Directory for published pages. Defaults to next to each source.")
	intervalFlag := flagSet.Duration("interval", 0, "How often sources are polled for changes, e.g. 500ms. 0 uses the configured or default interval.")
	onceFlag := flagSet.Bool("once", false, "Publish everything once and exit instead of watching.")
	notifyFlag := flagSet.String("notify-url", "", "socket.io server that receives a reload event after each rebuild.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var configPaths []string
	if *configFlag != "" {
		configPaths = append(configPaths, *configFlag)
	} else if *cFlag != "" {
		configPaths = append(configPaths, *cFlag)
	}
	sources := flagSet.Args()
	slog.Debug("Inputs determined.", "config", configPaths, "sources", sources)

	if len(configPaths) == 0 && len(sources) == 0 {
		slog.Debug("Nothing to publish, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths:     configPaths,
		Sources:         sources,
		OutputDir:       *outFlag,
		PollInterval:    *intervalFlag,
		Once:            *onceFlag,
		NotifyURL:       *notifyFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
