package media

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/hupe1980/facetgo"
)

// Source lists the streams available for a content URL.
//
// Implementations return *OptionsUnavailableError when listing fails.
type Source interface {
	MediaOptions(ctx context.Context, url string) ([]Stream, error)
}

// StaticSource is an in-memory Source keyed by URL.
type StaticSource struct {
	streams map[string][]Stream
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource creates a source serving a copy of streams.
func NewStaticSource(streams map[string][]Stream) *StaticSource {
	s := &StaticSource{streams: make(map[string][]Stream, len(streams))}
	for url, list := range streams {
		s.streams[url] = slices.Clone(list)
	}
	return s
}

// URLs returns the known URLs in sorted order.
func (s *StaticSource) URLs() []string {
	return slices.Sorted(maps.Keys(s.streams))
}

// MediaOptions implements Source.
func (s *StaticSource) MediaOptions(ctx context.Context, url string) ([]Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewOptionsUnavailableError(url, err)
	}
	if strings.TrimSpace(url) == "" {
		return nil, &InvalidURLError{URL: url}
	}

	list, ok := s.streams[url]
	if !ok {
		return nil, NewOptionsUnavailableError(url, nil)
	}
	return slices.Clone(list), nil
}

// Listing is the faceted view of one URL's streams.
type Listing struct {
	URL     string
	Facets  []facetgo.Facet // derived from all streams
	Streams []Stream        // streams satisfying the selections
}

// Browse lists the streams of url, derives their facets and filters them by
// selections using eng. A nil engine uses the defaults.
func Browse(ctx context.Context, src Source, eng *facetgo.Engine, url string, selections facetgo.Selections) (*Listing, error) {
	if eng == nil {
		eng = facetgo.New()
	}

	streams, err := src.MediaOptions(ctx, url)
	if err != nil {
		return nil, err
	}

	facets, err := eng.Derive(Items(streams))
	if err != nil {
		return nil, err
	}

	matched, err := eng.Filter(Items(streams), selections)
	if err != nil {
		return nil, err
	}

	return &Listing{
		URL:     url,
		Facets:  facets,
		Streams: Streams(matched),
	}, nil
}
