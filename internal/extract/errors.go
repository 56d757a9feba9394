package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned when no table matches the selector
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when no header contains the column label
	ErrColumnNotFound = errors.New("column not found")
	// ErrNoRows is returned when the column holds no values
	ErrNoRows = errors.New("no rows")
)

// ExtractionError reports which table lookup failed
type ExtractionError struct {
	Selector string
	Column   string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("extract %q: %v", e.Selector, e.Err)
	}
	return fmt.Sprintf("extract %q column %q: %v", e.Selector, e.Column, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
