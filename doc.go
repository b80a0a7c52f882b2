// Package facetgo provides faceted navigation over arbitrary collections.
//
// Given items that expose named facet values (resolution, file type, audio
// bit rate, ...), facetgo derives the facets worth offering as filter options
// and filters the collection down to the items matching a set of selections.
//
// # Quick Start
//
//	eng := facetgo.New()
//
//	docs := []metadata.Document{
//	    {"resolution": metadata.String("720p")},
//	    {"resolution": metadata.String("1080p")},
//	    {"resolution": metadata.String("1080p")},
//	}
//
//	facets, _ := eng.Derive(facetgo.Slice(docs))
//	// facets: [resolution[1080p 720p]]
//
//	matches, _ := eng.Filter(facetgo.Slice(docs), facetgo.Selections{
//	    facetgo.Select("resolution", "1080p"),
//	})
//	for item := range matches {
//	    // two documents
//	}
//
// # Items
//
// Any type implementing Item can be faceted. metadata.Document is a ready-made
// map-backed implementation; the media package adapts media stream listings.
//
// # Derivation
//
// Derive makes a single pass. Absent and empty values are ignored, and only
// facets with at least two distinct options are returned, since a facet with
// one option does not discriminate between items.
//
// # Filtering
//
// Filter returns an iter.Seq that evaluates lazily: it pulls one item at a
// time, yields it if it satisfies every constraint, and stops pulling as soon
// as the consumer breaks out of the loop. It never materializes the result.
//
// # Registry
//
// Facets and constraints are built through a Registry: ordered lists of
// constructors, where the first constructor accepting a value wins. The
// default registry handles string values. Register additional constructors to
// support other value shapes:
//
//	reg, _ := facetgo.NewRegistry(
//	    []facetgo.FacetConstructor{facetgo.StringFacetConstructor(), myIntFacets},
//	    []facetgo.ConstraintConstructor{facetgo.StringConstraintConstructor(), myIntSelection},
//	)
//	eng := facetgo.New(facetgo.WithRegistry(reg))
//
// # Indexes
//
// For repeated queries over the same snapshot, the index package answers the
// same questions from Roaring Bitmap posting lists.
package facetgo
