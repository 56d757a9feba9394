package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBody is returned when the source responds with no content
	ErrEmptyBody = errors.New("empty response body")
	// ErrDisallowed is returned when robots.txt forbids the source URL
	ErrDisallowed = errors.New("disallowed by robots.txt")
	// ErrTooLarge is returned when the body is longer than the configured max bytes
	ErrTooLarge = errors.New("response body exceeds max bytes")
)

// FetchError represents a failure to obtain the source document
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
