// Package logger adapts charmbracelet/log to the ports.Logger interface.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// CharmLogger routes application logs through charmbracelet/log.
type CharmLogger struct {
	inner *log.Logger
}

// New creates a logger writing to stderr. Debug output is gated on verbose.
func New(verbose bool) *CharmLogger {
	inner := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cmdgate",
	})
	if verbose {
		inner.SetLevel(log.DebugLevel)
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		inner.SetFormatter(log.LogfmtFormatter)
	}
	return &CharmLogger{inner: inner}
}

// WithPrefix returns a scoped logger for a subsystem.
func (l *CharmLogger) WithPrefix(prefix string) *CharmLogger {
	return &CharmLogger{inner: l.inner.WithPrefix(prefix)}
}

func (l *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	l.inner.Debug(msg, flatten(fields)...)
}

func (l *CharmLogger) Info(msg string, fields map[string]interface{}) {
	l.inner.Info(msg, flatten(fields)...)
}

func (l *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	l.inner.Warn(msg, flatten(fields)...)
}

func (l *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	args := flatten(fields)
	if err != nil {
		args = append(args, "error", err)
	}
	l.inner.Error(msg, args...)
}

func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
