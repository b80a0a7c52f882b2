package facetgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/facetgo/metadata"
)

var (
	// ErrInvalidFacetKey is returned when a facet key is empty.
	ErrInvalidFacetKey = errors.New("invalid facet key")

	// ErrInvalidFacetValue is returned when a facet value is empty or has a shape
	// the constructor does not handle.
	ErrInvalidFacetValue = errors.New("invalid facet value")

	// ErrUnsupportedValueShape is returned when no registered constructor accepts
	// a (key, value) pair.
	ErrUnsupportedValueShape = errors.New("unsupported facet value shape")

	// ErrInvalidRegistry is returned when a registry is built from unusable
	// constructor descriptors.
	ErrInvalidRegistry = errors.New("invalid registry")
)

// UnsupportedValueError reports that every registered constructor rejected a
// (key, value) pair.
//
// It matches ErrUnsupportedValueShape with errors.Is. The individual
// constructor rejections can be inspected with errors.Is and errors.As as well.
type UnsupportedValueError struct {
	Key        string
	Kind       metadata.Kind
	Rejections []error
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("%s: facet %q with %s value rejected by %d constructor(s)",
		ErrUnsupportedValueShape, e.Key, e.Kind, len(e.Rejections))
}

// Unwrap returns ErrUnsupportedValueShape followed by the constructor rejections.
func (e *UnsupportedValueError) Unwrap() []error {
	errs := make([]error, 0, len(e.Rejections)+1)
	errs = append(errs, ErrUnsupportedValueShape)
	return append(errs, e.Rejections...)
}

// ConstructorError attributes a rejection to a named constructor.
type ConstructorError struct {
	Constructor string
	cause       error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Constructor, e.cause)
}

func (e *ConstructorError) Unwrap() error { return e.cause }

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidFacetKey)
	}
	return nil
}
