package facetgo

import (
	"cmp"
	"iter"
	"slices"
	"time"
)

// Engine derives facets from datasets and filters datasets by selections.
//
// An Engine holds no state besides its immutable configuration, so a single
// instance may be shared by concurrent callers as long as each call gets its
// own dataset view.
type Engine struct {
	registry *Registry
	strict   bool
	metrics  MetricsCollector
	logger   *Logger
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	return &Engine{
		registry: o.registry,
		strict:   o.strict,
		metrics:  o.metricsCollector,
		logger:   o.logger,
	}
}

// Registry returns the engine's constructor registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Strict reports whether unresolvable selections are errors.
func (e *Engine) Strict() bool { return e.strict }

// Derive makes one pass over dataset and returns the facets that have more
// than one distinct option, ordered by key.
//
// Absent, null and empty values are skipped. If a value cannot be represented
// by any registered facet constructor, or is rejected by the facet already
// built for its key, the whole call fails with an *UnsupportedValueError.
func (e *Engine) Derive(dataset iter.Seq[Item]) ([]Facet, error) {
	start := time.Now()

	builders, items, err := e.accumulate(dataset)

	var facets []Facet
	if err == nil {
		facets = Surface(builders...)
	}

	e.metrics.RecordDerive(items, len(facets), time.Since(start), err)
	e.logger.LogDerive(items, len(builders), len(facets), err)

	if err != nil {
		return nil, err
	}
	return facets, nil
}

func (e *Engine) accumulate(dataset iter.Seq[Item]) ([]FacetBuilder, int, error) {
	if dataset == nil {
		return nil, 0, nil
	}

	var (
		items    int
		order    []FacetBuilder
		builders = make(map[string]FacetBuilder)
	)

	for item := range dataset {
		items++
		for _, key := range item.FacetKeys() {
			value, ok := item.FacetValue(key)
			if !ok || value.IsEmpty() {
				continue
			}

			if b, exists := builders[key]; exists {
				if err := AddOption(b, value); err != nil {
					return nil, items, err
				}
				continue
			}

			b, err := e.registry.NewFacet(key, value)
			if err != nil {
				return nil, items, err
			}
			builders[key] = b
			order = append(order, b)
		}
	}

	return order, items, nil
}

// Surface builds the facets that have more than one option, ordered by key.
// Single-valued facets carry no discriminating power and are dropped.
func Surface(builders ...FacetBuilder) []Facet {
	facets := make([]Facet, 0, len(builders))
	for _, b := range builders {
		if b.Len() > 1 {
			facets = append(facets, b.Build())
		}
	}
	slices.SortFunc(facets, func(a, b Facet) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return facets
}

// Resolve turns selections into constraints, in selection order.
//
// Selections that no constraint constructor accepts are dropped unless the
// engine was created with WithStrictConstraints, in which case the first such
// selection fails the call with an *UnsupportedValueError.
func (e *Engine) Resolve(selections Selections) ([]Constraint, error) {
	constraints := make([]Constraint, 0, len(selections))

	for _, sel := range selections {
		c, err := e.registry.NewConstraint(sel.Key, sel.Value)
		if err != nil {
			if e.strict {
				e.metrics.RecordResolve(len(selections), len(constraints), err)
				e.logger.LogResolve(len(selections), len(constraints), err)
				return nil, err
			}
			e.logger.LogDroppedSelection(sel.Key, err)
			continue
		}
		constraints = append(constraints, c)
	}

	e.metrics.RecordResolve(len(selections), len(constraints), nil)
	e.logger.LogResolve(len(selections), len(constraints), nil)

	return constraints, nil
}

// Filter returns a lazy sequence of the items in dataset that satisfy every
// resolved selection.
//
// Selections are resolved before Filter returns; the dataset is not touched
// until the sequence is ranged over. The sequence pulls one upstream item at a
// time and stops pulling as soon as the consumer stops. Ranging over it again
// ranges over dataset again.
func (e *Engine) Filter(dataset iter.Seq[Item], selections Selections) (iter.Seq[Item], error) {
	constraints, err := e.Resolve(selections)
	if err != nil {
		return nil, err
	}
	return e.stream(dataset, constraints), nil
}

func (e *Engine) stream(dataset iter.Seq[Item], constraints []Constraint) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		if dataset == nil {
			return
		}

		var scanned, matched int
		defer func() {
			e.metrics.RecordFilter(scanned, matched)
			e.logger.LogFilter(scanned, matched)
		}()

		for item := range dataset {
			scanned++
			if !SatisfiesAll(item, constraints) {
				continue
			}
			matched++
			if !yield(item) {
				return
			}
		}
	}
}

// Match returns a lazy sequence of the items in dataset that satisfy every
// constraint. With no constraints every item passes.
func Match(dataset iter.Seq[Item], constraints ...Constraint) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		if dataset == nil {
			return
		}
		for item := range dataset {
			if SatisfiesAll(item, constraints) && !yield(item) {
				return
			}
		}
	}
}

// SatisfiesAll reports whether item satisfies every constraint, checking them
// in order and stopping at the first failure.
func SatisfiesAll(item Item, constraints []Constraint) bool {
	for _, c := range constraints {
		if !c.SatisfiedBy(item) {
			return false
		}
	}
	return true
}
