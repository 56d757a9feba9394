package parse

import (
	"errors"
	"fmt"
)

// ErrUnparseable is matched by every ParseError
var ErrUnparseable = errors.New("unparseable biography")

// ParseError identifies the raw string that could not be turned into a record
type ParseError struct {
	Raw    string
	Reason string
}

func newParseError(raw, format string, args ...interface{}) *ParseError {
	return &ParseError{Raw: raw, Reason: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Raw, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}
