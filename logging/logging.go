// Package logging builds the process logger. The TUI owns stdout, so output goes to a file
// or is discarded.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination
type Config struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	// Output is a file path, "stderr", or empty to discard
	Output string `yaml:"output"`
}

// New creates a logger from cfg, the returned closer releases the log file
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "":
		return zerolog.Nop(), closer, nil
	case "stderr":
		output = os.Stderr
	default:
		if dir := filepath.Dir(cfg.Output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), closer, fmt.Errorf("create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("could not open log file: %w", err)
		}
		output, closer = file, file
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

// Component derives a logger tagged with a component name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
