package example

import "errors"

var (
	// ErrMissingField is returned when a required row field is empty.
	ErrMissingField = errors.New("example: missing required field")
	// ErrMalformedRow is returned when a row field holds an unusable value.
	ErrMalformedRow = errors.New("example: malformed row")
	// ErrInvalidWire is returned when decoding bytes that are not a tf.Example.
	ErrInvalidWire = errors.New("example: invalid wire data")
)
