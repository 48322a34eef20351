// Package logger builds the process-wide slog logger. Output goes to stderr
// unless a log file is configured, in which case it is rotated by lumberjack.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how the system logger writes.
type Options struct {
	Level  slog.Level
	Format string // "json" (default) or "text"
	File   string // empty means stderr
}

// New returns a slog.Logger for the given options and the writer behind it.
// Callers close the writer on shutdown; for stderr it is a no-op closer.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, nil, fmt.Errorf("creating log directory for %q: %w", opts.File, err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		w, closer = rotator, rotator
	}

	return slog.New(newHandler(w, opts)), closer, nil
}

// NewWriter returns a logger that writes to w. Used by tests to capture output.
func NewWriter(w io.Writer, opts Options) *slog.Logger {
	return slog.New(newHandler(w, opts))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newHandler(w io.Writer, opts Options) slog.Handler {
	ho := &slog.HandlerOptions{Level: opts.Level}
	if strings.EqualFold(opts.Format, "text") {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}
