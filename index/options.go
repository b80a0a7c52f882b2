package index

import (
	"runtime"

	"github.com/hupe1980/facetgo"
)

// DefaultChunkSize is the number of rows indexed per build task.
const DefaultChunkSize = 4096

type options struct {
	workers   int
	chunkSize int
	logger    *facetgo.Logger
}

// Option configures index construction.
type Option func(*options)

// WithWorkers sets the maximum number of chunks indexed concurrently.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets the number of rows per build task.
// Values below 1 fall back to DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithLogger configures structured logging for the build.
func WithLogger(logger *facetgo.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.chunkSize < 1 {
		o.chunkSize = DefaultChunkSize
	}
	if o.logger == nil {
		o.logger = facetgo.NoopLogger()
	}
	return o
}
