package vfcprobe

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with probe-store specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithCapacity adds a capacity field to the logger.
func (l *Logger) WithCapacity(capacity int) *Logger {
	return &Logger{
		Logger: l.Logger.With("capacity", capacity),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, key string, created bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"key", key,
			"created", created,
		)
	}
}

// LogCollision logs a hash collision before the store aborts.
func (l *Logger) LogCollision(ctx context.Context, c *ErrHashCollision) {
	l.ErrorContext(ctx, "hash collision between probes",
		"key", c.Key,
		"existing", c.Existing,
		"slot", c.Slot,
		"capacity", c.Capacity,
	)
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(ctx context.Context, key string, removed bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove completed",
			"key", key,
			"removed", removed,
		)
	}
}

// LogResize logs a resize (which discards all entries). Call it on a logger
// scoped with WithCapacity to the capacity before the resize.
func (l *Logger) LogResize(ctx context.Context, to, dropped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "resize failed",
			"to", to,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "resize completed",
			"to", to,
			"dropped_entries", dropped,
		)
	}
}

// LogDump logs an export.
func (l *Logger) LogDump(ctx context.Context, destination string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"destination", destination,
			"rows", rows,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dump completed",
			"destination", destination,
			"rows", rows,
		)
	}
}
