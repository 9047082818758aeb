package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("annotation: missing required column")
	// ErrPartialAttributes is returned when some but not all of the four
	// attribute columns are present.
	ErrPartialAttributes = errors.New("annotation: partial attribute columns")
)

// ParseError describes a value that could not be parsed.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation: line %d column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
