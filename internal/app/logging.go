package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level string
	// Format is "text" or "json".
	Format string
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// File, if set, appends logs to this path instead of Output.
	File string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

// ParseLogLevel parses a level name, defaulting to info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger creates a logger. The returned closer releases the log file,
// if one was opened, and is never nil.
func NewLogger(cfg LoggerConfig) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	l.SetLevel(ParseLogLevel(cfg.Level))

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000"})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000",
		})
	}

	var closer io.Closer = nopCloser{}
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, errors.Wrap(err, "creating log directory")
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening log file %s", cfg.File)
		}
		l.SetOutput(f)
		closer = f
	case cfg.Output != nil:
		l.SetOutput(cfg.Output)
	default:
		l.SetOutput(os.Stderr)
	}
	return l, closer, nil
}

// NullLogger returns a logger that discards all output.
func NullLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithComponent returns a logger with the component field set.
func WithComponent(l logrus.FieldLogger, component string) logrus.FieldLogger {
	return l.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
