package facetgo

import (
	"log/slog"
)

type options struct {
	registry         *Registry
	strict           bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithRegistry configures the constructors the engine dispatches through.
//
// If nil is passed, DefaultRegistry is used.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r == nil {
			r = DefaultRegistry()
		}
		o.registry = r
	}
}

// WithStrictConstraints makes Resolve and Filter fail with
// ErrUnsupportedValueShape when a selection cannot be turned into a constraint.
//
// By default such selections are dropped and the remaining constraints apply.
func WithStrictConstraints() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &facetgo.BasicMetricsCollector{}
//	eng := facetgo.New(facetgo.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := facetgo.NewJSONLogger(slog.LevelDebug)
//	eng := facetgo.New(facetgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}
