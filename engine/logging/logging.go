// Package logging holds the overlay's logger. It is silent until Configure
// installs a handler: the library runs inside someone else's process and
// must not write to its stderr uninvited.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/hubastard/grove-overlay/engine/config"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

// Session identifies this process in log files shared by several hosts.
var Session = uuid.NewString()

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger replaces the logger. nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func Logger() *slog.Logger { return loggerPtr.Load() }

// Thread returns the logger with the calling OS thread attached. GL work is
// tied to threads, so overlay code logs through this.
func Thread() *slog.Logger {
	return Logger().With("tid", unix.Gettid())
}

// ParseLevel maps a config level name to a slog level. ok is false for "off".
func ParseLevel(s string) (level slog.Level, ok bool, err error) {
	switch strings.ToLower(s) {
	case "off", "":
		return 0, false, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	}
	return 0, false, fmt.Errorf("unknown log level %q", s)
}

// Configure installs a text handler per cfg and returns a function closing
// the log file, if one was opened.
func Configure(cfg config.Log) (func() error, error) {
	level, on, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if !on {
		SetLogger(nil)
		return func() error { return nil }, nil
	}

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	SetLogger(New(w, level))
	return closeFn, nil
}

// New returns a text logger tagged with the session and pid.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("session", Session, "pid", os.Getpid())
}
