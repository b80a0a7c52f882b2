package facetgo

import (
	"fmt"
	"slices"

	"github.com/hupe1980/facetgo/metadata"
)

// Facet is a facet key together with the distinct values observed for it in
// one derivation pass.
//
// A Facet is immutable once it is handed to a caller.
type Facet interface {
	Key() string
	// Options returns a copy of the distinct option values.
	Options() []metadata.Value
	// Len returns the number of distinct options.
	Len() int
}

// FacetBuilder accumulates the options of one facet during derivation.
type FacetBuilder interface {
	Key() string
	// Add records value as an option. Adding a value that is already present
	// is a no-op.
	Add(value metadata.Value) error
	Len() int
	// Build returns an immutable snapshot of the options seen so far.
	Build() Facet
}

// AddOption records value in b. A rejected value is reported as an
// *UnsupportedValueError, the same way a first value no constructor accepts
// is reported.
func AddOption(b FacetBuilder, value metadata.Value) error {
	if err := b.Add(value); err != nil {
		return &UnsupportedValueError{Key: b.Key(), Kind: value.Kind, Rejections: []error{err}}
	}
	return nil
}

// FacetConstructor describes one facet value shape.
//
// New validates the first (key, value) pair seen for a facet and returns a
// builder holding that value, or an error when the shape does not fit.
type FacetConstructor struct {
	Name string
	New  func(key string, value metadata.Value) (FacetBuilder, error)
}

// StringFacetConstructor accepts non-empty string values.
func StringFacetConstructor() FacetConstructor {
	return FacetConstructor{
		Name: "string-options",
		New: func(key string, value metadata.Value) (FacetBuilder, error) {
			b, err := NewStringFacetBuilder(key)
			if err != nil {
				return nil, err
			}
			if err := b.Add(value); err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// StringFacetBuilder is the FacetBuilder for string options.
type StringFacetBuilder struct {
	key     string
	options map[string]struct{}
}

var _ FacetBuilder = (*StringFacetBuilder)(nil)

// NewStringFacetBuilder creates an empty builder for key.
func NewStringFacetBuilder(key string) (*StringFacetBuilder, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return &StringFacetBuilder{
		key:     key,
		options: make(map[string]struct{}),
	}, nil
}

// Key returns the facet key.
func (b *StringFacetBuilder) Key() string { return b.key }

// Len returns the number of distinct options.
func (b *StringFacetBuilder) Len() int { return len(b.options) }

// Add records a non-empty string option.
func (b *StringFacetBuilder) Add(value metadata.Value) error {
	s, ok := value.AsString()
	if !ok {
		return fmt.Errorf("%w: facet %q option must be a string, got %s", ErrInvalidFacetValue, b.key, value.Kind)
	}
	if s == "" {
		return fmt.Errorf("%w: facet %q option is empty", ErrInvalidFacetValue, b.key)
	}
	b.options[s] = struct{}{}
	return nil
}

// Build returns an immutable StringFacet.
func (b *StringFacetBuilder) Build() Facet {
	options := make([]string, 0, len(b.options))
	for s := range b.options {
		options = append(options, s)
	}
	slices.Sort(options)
	return &StringFacet{key: b.key, options: options}
}

// StringFacet is a derived facet whose options are strings.
type StringFacet struct {
	key     string
	options []string // sorted, distinct
}

var _ Facet = (*StringFacet)(nil)

// Key returns the facet key.
func (f *StringFacet) Key() string { return f.key }

// Len returns the number of distinct options.
func (f *StringFacet) Len() int { return len(f.options) }

// Strings returns the options in lexicographic order.
func (f *StringFacet) Strings() []string {
	return slices.Clone(f.options)
}

// Options returns the options as values, in lexicographic order.
func (f *StringFacet) Options() []metadata.Value {
	out := make([]metadata.Value, len(f.options))
	for i, s := range f.options {
		out[i] = metadata.String(s)
	}
	return out
}

// Has reports whether s is one of the options.
func (f *StringFacet) Has(s string) bool {
	_, found := slices.BinarySearch(f.options, s)
	return found
}

func (f *StringFacet) String() string {
	return fmt.Sprintf("%s%v", f.key, f.options)
}
