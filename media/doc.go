// Package media exposes media stream listings as facetgo items.
//
// A Stream carries four facets: media_type, file_type, resolution and
// audio_bit_rate. Listing streams is delegated to a Source; StaticSource is an
// in-memory implementation.
//
//	src := media.NewStaticSource(map[string][]media.Stream{url: streams})
//	listing, err := media.Browse(ctx, src, nil, url, facetgo.Selections{
//		facetgo.Select(media.KeyMediaType, media.TypeAudio),
//	})
package media
