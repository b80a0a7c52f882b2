package facetgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with facetgo-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithKey adds a facet key field to the logger.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("facet", key),
	}
}

// LogDerive logs a derivation pass.
func (l *Logger) LogDerive(items, candidates, facets int, err error) {
	if err != nil {
		l.Error("derive failed",
			"items", items,
			"error", err,
		)
		return
	}
	l.Debug("derive completed",
		"items", items,
		"candidates", candidates,
		"facets", facets,
	)
}

// LogResolve logs constraint resolution.
func (l *Logger) LogResolve(requested, resolved int, err error) {
	if err != nil {
		l.Error("resolve failed",
			"requested", requested,
			"error", err,
		)
		return
	}
	if resolved < requested {
		l.Warn("resolve dropped selections",
			"requested", requested,
			"resolved", resolved,
			"dropped", requested-resolved,
		)
		return
	}
	l.Debug("resolve completed",
		"requested", requested,
		"resolved", resolved,
	)
}

// LogDroppedSelection logs a selection no constructor accepted.
func (l *Logger) LogDroppedSelection(key string, err error) {
	l.Debug("selection dropped",
		"facet", key,
		"error", err,
	)
}

// LogFilter logs the end of a filtered sequence.
func (l *Logger) LogFilter(scanned, matched int) {
	l.Debug("filter finished",
		"scanned", scanned,
		"matched", matched,
	)
}
