package media

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/facetgo"
)

// CachingSource memoizes successful listings of a Source and deduplicates
// concurrent listings of the same URL. Failures are not cached.
type CachingSource struct {
	delegate Source
	group    singleflight.Group
	logger   *facetgo.Logger

	mu      sync.RWMutex
	entries map[string][]Stream
}

var _ Source = (*CachingSource)(nil)

// CachingSourceOption configures a CachingSource.
type CachingSourceOption func(*CachingSource)

// WithCacheLogger sets the logger used to report cache activity.
func WithCacheLogger(logger *facetgo.Logger) CachingSourceOption {
	return func(s *CachingSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCachingSource wraps delegate with a cache.
func NewCachingSource(delegate Source, opts ...CachingSourceOption) *CachingSource {
	s := &CachingSource{
		delegate: delegate,
		logger:   facetgo.NoopLogger(),
		entries:  make(map[string][]Stream),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MediaOptions implements Source.
func (s *CachingSource) MediaOptions(ctx context.Context, url string) ([]Stream, error) {
	s.mu.RLock()
	cached, ok := s.entries[url]
	s.mu.RUnlock()

	if ok {
		s.logger.Debug("media options cache hit", "url", url)
		return slices.Clone(cached), nil
	}

	v, err, shared := s.group.Do(url, func() (any, error) {
		streams, err := s.delegate.MediaOptions(ctx, url)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.entries[url] = streams
		s.mu.Unlock()

		return streams, nil
	})
	if err != nil {
		s.logger.Warn("media options unavailable", "url", url, "error", err)
		return nil, err
	}

	if shared {
		s.logger.Debug("media options listing deduplicated", "url", url)
	}

	return slices.Clone(v.([]Stream)), nil
}

// Invalidate drops the cached listing of url.
func (s *CachingSource) Invalidate(url string) {
	s.mu.Lock()
	delete(s.entries, url)
	s.mu.Unlock()
}

// Len returns the number of cached listings.
func (s *CachingSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
