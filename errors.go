package oidrecord

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTable is returned when Convert is called without an annotation table.
	ErrNoTable = errors.New("oidrecord: annotation table is required")
	// ErrNoVocabulary is returned when Convert is called without a label vocabulary.
	ErrNoVocabulary = errors.New("oidrecord: label vocabulary is required")
	// ErrNoImageSource is returned when Convert is called without an image source.
	ErrNoImageSource = errors.New("oidrecord: image source is required")
	// ErrNoStore is returned when Convert is called without a blob store.
	ErrNoStore = errors.New("oidrecord: blob store is required")
	// ErrEmptyBase is returned for an empty output base path.
	ErrEmptyBase = errors.New("oidrecord: empty output base")
)

// ImageError reports an image whose bytes could not be fetched or whose
// record could not be built.
//
// The original underlying error can be accessed via errors.Unwrap.
type ImageError struct {
	ImageID string
	cause   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("oidrecord: image %s: %v", e.ImageID, e.cause)
}

func (e *ImageError) Unwrap() error { return e.cause }
