// Package logging configures the structured, leveled logger every other
// component writes through.
package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger at levelName ("debug", "info", "warn", "error"),
// rendering as colorized text when format is "text" (the default for an
// interactive terminal) or as JSON lines when format is "json" (the
// convention for shipping logs to a collector).
func New(levelName, format string) (*log.Logger, error) {
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", levelName, err)
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
	}
	if format == "json" {
		opts.Formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(os.Stderr, opts)
	return logger, nil
}
