// Package logger builds the structured logrus logger used across the web
// front.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"healthpredict-web/config"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// New creates a logrus logger with the given level, format and output.
// Empty values select info, JSON and stdout. Anything else that is not
// recognized is an error, so a typo in the environment fails startup
// instead of silently logging elsewhere.
func New(level, format, output string) (*logrus.Logger, error) {
	log := logrus.New()

	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(logLevel)

	formatter, err := newFormatter(format)
	if err != nil {
		return nil, err
	}
	log.SetFormatter(formatter)

	out, err := openOutput(output)
	if err != nil {
		return nil, err
	}
	log.SetOutput(out)

	return log, nil
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}, nil
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		}, nil
	default:
		return nil, fmt.Errorf("log format %q: want json or text", format)
	}
}

// openOutput resolves stdout, stderr or a log file path. File output is
// mirrored to stdout.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	if strings.Contains(output, "..") {
		return nil, fmt.Errorf("log output %q: path must not contain '..'", output)
	}

	// #nosec G304 -- path is checked above
	file, err := os.OpenFile(filepath.Clean(output), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("log output: %w", err)
	}
	return io.MultiWriter(os.Stdout, file), nil
}

// NewWithConfig creates a logger from the logging section of the config.
func NewWithConfig(cfg *config.LoggingConfig) (*logrus.Logger, error) {
	return New(cfg.Level, cfg.Format, cfg.Output)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
