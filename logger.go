package packset

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with packset-specific context.
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

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
// If w is nil, logs go to stderr.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
// If w is nil, logs go to stderr.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFunc adds a host function name field to the logger.
func (l *Logger) WithFunc(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("func", name),
	}
}

// WithMode adds a query mode field to the logger.
func (l *Logger) WithMode(mode Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// LogEncode logs an encode operation.
func (l *Logger) LogEncode(ctx context.Context, count, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "encode completed",
			"count", count,
			"bytes", size,
		)
	}
}

// LogDecode logs a decode operation.
func (l *Logger) LogDecode(ctx context.Context, size, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"bytes", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decode completed",
			"bytes", size,
			"count", count,
		)
	}
}

// LogQuery logs a containment query.
func (l *Logger) LogQuery(ctx context.Context, mode Mode, queryLen int, found bool, err error) {
	l = l.WithMode(mode)
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"query_len", queryLen,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"query_len", queryLen,
			"found", found,
		)
	}
}

// LogDump logs a dump operation.
func (l *Logger) LogDump(ctx context.Context, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"bytes", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "dump completed",
			"bytes", size,
		)
	}
}

// LogFilter logs a batch filter.
func (l *Logger) LogFilter(ctx context.Context, mode Mode, rows, matched int, err error) {
	l = l.WithMode(mode)
	if err != nil {
		l.ErrorContext(ctx, "filter failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "filter completed",
			"rows", rows,
			"matched", matched,
		)
	}
}
