package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur404dev/wuquant/internal/utils/paths"
)

var (
	// Log is the package-level logger every command in internal/commands
	// writes through. SetupFileLogging assigns a new logger to Log, so a
	// value copied from Log before that call keeps the old handler.
	Log *slog.Logger

	level = new(slog.LevelVar)
)

func init() {
	level.Set(slog.LevelInfo)

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// replaceAttr shortens timestamps to clock time and source paths to
// basename:line, for both the console and file handlers.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format("15:04:05.000"))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return a
}

// SetLevel sets the minimum level the active handler(s) emit.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetDebug switches between debug and info level.
func SetDebug(debug bool) {
	if debug {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// SetVerbose is SetDebug's one-way cousin: --verbose only raises the level, it
// never lowers it back to info.
func SetVerbose(verbose bool) {
	if verbose {
		SetDebug(true)
	}
}

// SetupFileLogging replaces Log with a handler that writes structured
// JSON to logFile (default: the wuquant cache dir) alongside the usual
// text output on stderr, so a run can be replayed from disk after the
// terminal scrollback is gone.
func SetupFileLogging(logFile string) error {
	if logFile == "" {
		logFile = filepath.Join(paths.WuquantCacheDir, "wuquant.log")
	}

	if err := paths.EnsureParentDir(logFile); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})

	Log = slog.New(&MultiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
	slog.SetDefault(Log)

	return nil
}

// MultiHandler fans a record out to every wrapped handler, stopping at
// the first error. Used to keep stderr text output and on-disk JSON in
// sync without duplicating the call sites that log through Log.
type MultiHandler struct {
	handlers []slog.Handler
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if err := handler.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}

// Debug logs a debug message through Log.
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs an info message through Log.
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs a warning message through Log.
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs an error message through Log.
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Fatal logs an error message through Log, then exits with status 1.
func Fatal(msg string, args ...any) {
	Log.Error(msg, args...)
	os.Exit(1)
}
