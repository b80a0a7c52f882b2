package facetgo

import (
	"iter"

	"github.com/hupe1980/facetgo/metadata"
)

// Item is anything that exposes facet views.
//
// FacetKeys returns the facet keys the item supports, in any order.
// FacetValue returns the item's value for key; ok is false when the item does
// not carry that facet. Implementations must not change their answers while a
// Derive or Filter call is iterating them.
type Item interface {
	FacetKeys() []string
	FacetValue(key string) (v metadata.Value, ok bool)
}

// Slice returns a re-iterable dataset view over items.
func Slice[T Item](items []T) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns a re-iterable dataset view over the given items.
func Items(items ...Item) iter.Seq[Item] {
	return Slice(items)
}

// Collect drains a dataset into a slice.
func Collect(dataset iter.Seq[Item]) []Item {
	var out []Item
	if dataset == nil {
		return out
	}
	for item := range dataset {
		out = append(out, item)
	}
	return out
}
