// Package index provides a Roaring Bitmap facet index over a dataset snapshot.
//
// An Index materializes a slice of items once and then answers the two facet
// questions from posting lists instead of scanning:
//
//   - Facets: the discriminating facets, identical to Engine.Derive on the same items
//   - Filter: the items matching a set of selections, identical to Engine.Filter
//
// Structure: facet key -> value key -> bitmap of row positions. Rows are the
// positions of the items in the slice passed to New.
//
// # Building
//
//	eng := facetgo.New()
//	idx, err := index.New(ctx, eng, items, index.WithWorkers(4))
//
// The build splits rows into chunks that are indexed concurrently and merged
// afterwards. Once built an Index is read-only and safe for concurrent use.
//
// # Filtering
//
// Constraints implementing facetgo.EqualityConstraint are answered by
// intersecting posting lists. Any other constraint is evaluated per candidate
// row. Matches are yielded in row order.
package index
