package index

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/facetgo"
	"github.com/hupe1980/facetgo/metadata"
)

// ErrTooManyItems is returned when a snapshot does not fit 32-bit row positions.
var ErrTooManyItems = errors.New("index: too many items")

// Index is an immutable facet index over a slice of items.
type Index struct {
	eng   *facetgo.Engine
	items []facetgo.Item

	// key -> field postings
	fields map[string]*field
}

// field holds the posting lists of one facet key.
type field struct {
	// valueKey -> rows carrying that value
	rows map[string]*metadata.Bitmap
	// valueKey -> representative value
	values map[string]metadata.Value
}

func newField() *field {
	return &field{
		rows:   make(map[string]*metadata.Bitmap),
		values: make(map[string]metadata.Value),
	}
}

func (f *field) add(row uint32, v metadata.Value) {
	vk := v.Key()
	bm, ok := f.rows[vk]
	if !ok {
		bm = metadata.NewBitmap()
		f.rows[vk] = bm
		f.values[vk] = v
	}
	bm.Add(row)
}

func (f *field) merge(other *field) {
	for vk, bm := range other.rows {
		if existing, ok := f.rows[vk]; ok {
			existing.Or(bm)
			continue
		}
		f.rows[vk] = bm
		f.values[vk] = other.values[vk]
	}
}

// sortedValueKeys returns the value keys in lexicographic order.
func (f *field) sortedValueKeys() []string {
	keys := make([]string, 0, len(f.rows))
	for vk := range f.rows {
		keys = append(keys, vk)
	}
	slices.Sort(keys)
	return keys
}

// New indexes items. The engine supplies the constructor registry and the
// selection resolution policy used by Facets and Filter.
//
// Items are not copied; they must not change while the index is in use.
// Absent, null and empty values are not indexed.
func New(ctx context.Context, eng *facetgo.Engine, items []facetgo.Item, optFns ...Option) (*Index, error) {
	if eng == nil {
		eng = facetgo.New()
	}
	if uint64(len(items)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyItems, len(items))
	}

	o := applyOptions(optFns)
	start := time.Now()

	chunks := (len(items) + o.chunkSize - 1) / o.chunkSize
	partials := make([]map[string]*field, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for c := 0; c < chunks; c++ {
		lo := c * o.chunkSize
		hi := min(lo+o.chunkSize, len(items))

		g.Go(func() error {
			fields, err := indexChunk(gctx, items, lo, hi)
			if err != nil {
				return err
			}
			partials[c] = fields
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Error("index build failed", "items", len(items), "error", err)
		return nil, err
	}

	merged := make(map[string]*field)
	for _, part := range partials {
		for key, f := range part {
			if existing, ok := merged[key]; ok {
				existing.merge(f)
				continue
			}
			merged[key] = f
		}
	}

	o.logger.Debug("index build completed",
		"items", len(items),
		"chunks", chunks,
		"fields", len(merged),
		"duration", time.Since(start),
	)

	return &Index{
		eng:    eng,
		items:  items,
		fields: merged,
	}, nil
}

func indexChunk(ctx context.Context, items []facetgo.Item, lo, hi int) (map[string]*field, error) {
	fields := make(map[string]*field)
	for row := lo; row < hi; row++ {
		if row%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := items[row]
		for _, key := range item.FacetKeys() {
			v, ok := item.FacetValue(key)
			if !ok || v.IsEmpty() {
				continue
			}
			f, ok := fields[key]
			if !ok {
				f = newField()
				fields[key] = f
			}
			f.add(uint32(row), v)
		}
	}
	return fields, nil
}

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Item returns the item at row.
func (ix *Index) Item(row uint32) (facetgo.Item, bool) {
	if int(row) >= len(ix.items) {
		return nil, false
	}
	return ix.items[row], true
}

// Keys returns the indexed facet keys in sorted order.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, len(ix.fields))
	for k := range ix.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns a copy of the rows whose value for key equals value.
// The bitmap is empty when no row matches.
func (ix *Index) Lookup(key string, value metadata.Value) *metadata.Bitmap {
	if bm := ix.postings(key, value); bm != nil {
		return bm.Clone()
	}
	return metadata.NewBitmap()
}

func (ix *Index) postings(key string, value metadata.Value) *metadata.Bitmap {
	f, ok := ix.fields[key]
	if !ok {
		return nil
	}
	return f.rows[value.Key()]
}

// Facets returns the facets with more than one distinct option, ordered by key.
//
// The result equals Engine.Derive over the indexed items. Like Derive, it
// fails if any indexed value is rejected by every facet constructor.
func (ix *Index) Facets() ([]facetgo.Facet, error) {
	reg := ix.eng.Registry()
	builders := make([]facetgo.FacetBuilder, 0, len(ix.fields))

	for _, key := range ix.Keys() {
		f := ix.fields[key]

		var b facetgo.FacetBuilder
		for _, vk := range f.sortedValueKeys() {
			v := f.values[vk]
			if b == nil {
				nb, err := reg.NewFacet(key, v)
				if err != nil {
					return nil, err
				}
				b = nb
				continue
			}
			if err := facetgo.AddOption(b, v); err != nil {
				return nil, err
			}
		}
		builders = append(builders, b)
	}

	return facetgo.Surface(builders...), nil
}

// Filter returns the items satisfying every resolved selection, in row order.
//
// Selections are resolved with the engine's policy, so unresolvable selections
// are dropped unless the engine is strict. The candidate rows are computed
// before Filter returns; items are yielded lazily.
func (ix *Index) Filter(selections facetgo.Selections) (iter.Seq[facetgo.Item], error) {
	constraints, err := ix.eng.Resolve(selections)
	if err != nil {
		return nil, err
	}

	candidates, residual := ix.compile(constraints)

	return func(yield func(facetgo.Item) bool) {
		for row := range candidates.Rows() {
			item := ix.items[row]
			if !facetgo.SatisfiesAll(item, residual) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}, nil
}

// Rows returns the row positions satisfying every resolved selection.
func (ix *Index) Rows(selections facetgo.Selections) (*metadata.Bitmap, error) {
	constraints, err := ix.eng.Resolve(selections)
	if err != nil {
		return nil, err
	}

	candidates, residual := ix.compile(constraints)
	if len(residual) == 0 {
		return candidates, nil
	}

	out := metadata.NewBitmap()
	for row := range candidates.Rows() {
		if facetgo.SatisfiesAll(ix.items[row], residual) {
			out.Add(row)
		}
	}
	return out, nil
}

// compile intersects the posting lists of the equality constraints and returns
// the remaining constraints for per-row evaluation.
func (ix *Index) compile(constraints []facetgo.Constraint) (*metadata.Bitmap, []facetgo.Constraint) {
	var (
		result   *metadata.Bitmap
		residual []facetgo.Constraint
	)

	for _, c := range constraints {
		eq, ok := c.(facetgo.EqualityConstraint)
		if !ok || eq.Selected().IsEmpty() {
			residual = append(residual, c)
			continue
		}

		bm := ix.postings(eq.Key(), eq.Selected())
		if bm == nil {
			return metadata.NewBitmap(), nil
		}

		if result == nil {
			result = bm.Clone()
		} else {
			result.And(bm)
		}

		if result.IsEmpty() {
			return result, nil
		}
	}

	if result == nil {
		result = metadata.Range(uint32(len(ix.items)))
	}
	return result, residual
}

// Stats returns statistics about the index.
type Stats struct {
	Items            int    // Total indexed items
	FieldCount       int    // Number of indexed facet keys
	BitmapCount      int    // Total number of posting lists
	TotalCardinality uint64 // Sum of all posting list cardinalities
	MemoryBytes      uint64 // Size of all posting lists
}

// GetStats returns statistics about the index.
func (ix *Index) GetStats() Stats {
	stats := Stats{
		Items:      len(ix.items),
		FieldCount: len(ix.fields),
	}

	for _, f := range ix.fields {
		for _, bm := range f.rows {
			stats.BitmapCount++
			stats.TotalCardinality += bm.Cardinality()
			stats.MemoryBytes += bm.GetSizeInBytes()
		}
	}

	return stats
}
