// Package log wraps zerolog with lumberjack-backed rotation; Root.For
// gives a subsystem its own logger carrying a "component" field (the
// daemon creates ones for iface, telemetry and store), the way the
// pack's monitoring tool wires its logging layer.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log output is written.
type Config struct {
	Path       string
	Level      string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Root is the process-wide base logger every subsystem logger derives
// from via With().
type Root struct {
	logger zerolog.Logger
}

// New builds a Root from cfg. An empty Path logs to stdout instead of
// rotating a file.
func New(cfg Config) (*Root, error) {
	var writer io.Writer = os.Stdout
	if cfg.Path != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return &Root{logger: zerolog.New(writer).With().Timestamp().Logger().Level(level)}, nil
}

// For returns a logger tagged with component, for one subsystem to
// hold onto for the lifetime of the process.
func (r *Root) For(component string) zerolog.Logger {
	return r.logger.With().Str("component", component).Logger()
}
