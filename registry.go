package facetgo

import (
	"fmt"
	"slices"

	"github.com/hupe1980/facetgo/metadata"
)

// Registry holds the ordered facet and constraint constructors an Engine
// dispatches through. The first constructor that accepts a value wins.
//
// A Registry is immutable and safe for concurrent use.
type Registry struct {
	facets      []FacetConstructor
	constraints []ConstraintConstructor
}

// NewRegistry creates a registry from ordered constructor lists.
// Both lists must be non-empty and every descriptor needs a name and a New func.
func NewRegistry(facets []FacetConstructor, constraints []ConstraintConstructor) (*Registry, error) {
	if len(facets) == 0 {
		return nil, fmt.Errorf("%w: no facet constructors", ErrInvalidRegistry)
	}
	if len(constraints) == 0 {
		return nil, fmt.Errorf("%w: no constraint constructors", ErrInvalidRegistry)
	}
	for i, fc := range facets {
		if fc.Name == "" || fc.New == nil {
			return nil, fmt.Errorf("%w: facet constructor %d is incomplete", ErrInvalidRegistry, i)
		}
	}
	for i, cc := range constraints {
		if cc.Name == "" || cc.New == nil {
			return nil, fmt.Errorf("%w: constraint constructor %d is incomplete", ErrInvalidRegistry, i)
		}
	}

	return &Registry{
		facets:      slices.Clone(facets),
		constraints: slices.Clone(constraints),
	}, nil
}

// DefaultRegistry returns a registry that handles string facets and single
// string selections.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]FacetConstructor{StringFacetConstructor()},
		[]ConstraintConstructor{StringConstraintConstructor()},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// FacetConstructors returns the facet constructor names in dispatch order.
func (r *Registry) FacetConstructors() []string {
	names := make([]string, len(r.facets))
	for i, fc := range r.facets {
		names[i] = fc.Name
	}
	return names
}

// ConstraintConstructors returns the constraint constructor names in dispatch order.
func (r *Registry) ConstraintConstructors() []string {
	names := make([]string, len(r.constraints))
	for i, cc := range r.constraints {
		names[i] = cc.Name
	}
	return names
}

// NewFacet builds a FacetBuilder seeded with value using the first facet
// constructor that accepts it.
func (r *Registry) NewFacet(key string, value metadata.Value) (FacetBuilder, error) {
	var rejections []error
	for _, fc := range r.facets {
		b, err := fc.New(key, value)
		if err == nil {
			return b, nil
		}
		rejections = append(rejections, &ConstructorError{Constructor: fc.Name, cause: err})
	}
	return nil, &UnsupportedValueError{Key: key, Kind: value.Kind, Rejections: rejections}
}

// NewConstraint builds a Constraint using the first constraint constructor
// that accepts the selection.
func (r *Registry) NewConstraint(key string, value metadata.Value) (Constraint, error) {
	var rejections []error
	for _, cc := range r.constraints {
		c, err := cc.New(key, value)
		if err == nil {
			return c, nil
		}
		rejections = append(rejections, &ConstructorError{Constructor: cc.Name, cause: err})
	}
	return nil, &UnsupportedValueError{Key: key, Kind: value.Kind, Rejections: rejections}
}
