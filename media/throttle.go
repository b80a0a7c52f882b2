package media

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig holds the limits of a ThrottledSource.
type ThrottleConfig struct {
	// MaxConcurrent is the maximum number of listings in flight.
	// If 0, defaults to 1.
	MaxConcurrent int64

	// RequestsPerSec caps the rate of listings.
	// If 0, unlimited.
	RequestsPerSec float64

	// Burst is the number of listings allowed above the rate.
	// If 0, defaults to 1.
	Burst int
}

// ThrottledSource bounds the concurrency and rate of calls to a Source.
type ThrottledSource struct {
	delegate Source
	sem      *semaphore.Weighted
	limiter  *rate.Limiter // nil if unlimited
}

var _ Source = (*ThrottledSource)(nil)

// NewThrottledSource wraps delegate with the limits in cfg.
func NewThrottledSource(delegate Source, cfg ThrottleConfig) *ThrottledSource {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	s := &ThrottledSource{
		delegate: delegate,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
	}

	if cfg.RequestsPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst)
	}

	return s
}

// MediaOptions implements Source. It blocks until a slot is free and the rate
// allows the call, or ctx is done.
func (s *ThrottledSource) MediaOptions(ctx context.Context, url string) ([]Stream, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, NewOptionsUnavailableError(url, err)
		}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, NewOptionsUnavailableError(url, err)
	}
	defer s.sem.Release(1)

	return s.delegate.MediaOptions(ctx, url)
}
