package facetgo

import (
	"fmt"

	"github.com/hupe1980/facetgo/metadata"
)

// Constraint is a caller-selected facet value that items are tested against.
type Constraint interface {
	Key() string
	SatisfiedBy(item Item) bool
}

// EqualityConstraint is a Constraint satisfied exactly by items whose value for
// Key equals Selected.
//
// Indexes use it to answer constraints from posting lists instead of
// evaluating SatisfiedBy per item.
type EqualityConstraint interface {
	Constraint
	Selected() metadata.Value
}

// ConstraintConstructor describes one selection value shape.
type ConstraintConstructor struct {
	Name string
	New  func(key string, value metadata.Value) (Constraint, error)
}

// StringConstraintConstructor accepts a single non-empty string selection.
func StringConstraintConstructor() ConstraintConstructor {
	return ConstraintConstructor{
		Name: "single-string-selection",
		New: func(key string, value metadata.Value) (Constraint, error) {
			s, ok := value.AsString()
			if !ok {
				return nil, fmt.Errorf("%w: selection for facet %q must be a string, got %s", ErrInvalidFacetValue, key, value.Kind)
			}
			return NewStringConstraint(key, s)
		},
	}
}

// StringConstraint selects items whose string value for a facet equals the
// selection exactly.
type StringConstraint struct {
	key      string
	selected metadata.Value
}

var _ EqualityConstraint = (*StringConstraint)(nil)

// NewStringConstraint validates key and selected and returns the constraint.
func NewStringConstraint(key, selected string) (*StringConstraint, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if selected == "" {
		return nil, fmt.Errorf("%w: selection for facet %q is empty", ErrInvalidFacetValue, key)
	}
	return &StringConstraint{key: key, selected: metadata.String(selected)}, nil
}

// Key returns the facet key.
func (c *StringConstraint) Key() string { return c.key }

// Selected returns the selected value.
func (c *StringConstraint) Selected() metadata.Value { return c.selected }

// SatisfiedBy reports whether item carries the facet with exactly the selected value.
// Items lacking the facet never match.
func (c *StringConstraint) SatisfiedBy(item Item) bool {
	v, ok := item.FacetValue(c.key)
	if !ok {
		return false
	}
	return c.selected.Equal(v)
}

func (c *StringConstraint) String() string {
	return fmt.Sprintf("%s=%s", c.key, c.selected.StringValue())
}
