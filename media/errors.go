package media

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is matched by *InvalidURLError.
var ErrInvalidURL = errors.New("invalid media url")

// InvalidURLError reports a URL that does not point to valid media content.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("URL: %s does not point to valid media", e.URL)
}

// Is reports whether target is ErrInvalidURL.
func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }

// OptionsUnavailableError reports that the media options for a URL could not
// be listed. Without an explicit cause the URL is reported as invalid.
type OptionsUnavailableError struct {
	URL   string
	cause error
}

// NewOptionsUnavailableError returns an error for url caused by cause.
// A nil cause defaults to an *InvalidURLError.
func NewOptionsUnavailableError(url string, cause error) *OptionsUnavailableError {
	return &OptionsUnavailableError{URL: url, cause: cause}
}

func (e *OptionsUnavailableError) Error() string {
	return fmt.Sprintf("cannot get media options for content at %s: %v", e.URL, e.Unwrap())
}

// Unwrap returns the cause.
func (e *OptionsUnavailableError) Unwrap() error {
	if e.cause == nil {
		return &InvalidURLError{URL: e.URL}
	}
	return e.cause
}
