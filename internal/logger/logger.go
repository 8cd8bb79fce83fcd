// Package logger is a leveled printf logger for long-running surfaces.
//
// A run id stored in the context with WithRunID is prefixed to every line.
package logger

import (
	"context"
	"io"
	"log"
	"strings"
)

// Logger writes leveled, printf-style messages.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// Level names.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ValidLevel reports whether s names a level.
func ValidLevel(s string) bool {
	_, ok := levels[strings.ToLower(s)]
	return ok
}

type implLogger struct {
	logger *log.Logger
	level  int
}

// Compile-time interface compliance check.
var _ Logger = (*implLogger)(nil)

// New creates a Logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, level string) Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = levels[LevelInfo]
	}
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  lvl,
	}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(io.Discard, LevelError)
}

func (l *implLogger) shouldLog(level string) bool {
	return levels[level] >= l.level
}

func (l *implLogger) printf(ctx context.Context, tag, msg string, args ...any) {
	prefix := "[" + tag + "] "
	if id := RunID(ctx); id != "" {
		prefix += "run=" + id + " "
	}
	l.logger.Printf(prefix+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.shouldLog(LevelDebug) {
		l.printf(ctx, "DEBUG", msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.shouldLog(LevelInfo) {
		l.printf(ctx, "INFO", msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.shouldLog(LevelWarn) {
		l.printf(ctx, "WARN", msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.shouldLog(LevelError) {
		l.printf(ctx, "ERROR", msg, args...)
	}
}

type runIDKey struct{}

// WithRunID returns a context carrying a pipeline run id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
