package tfrecord

import "errors"

var (
	// ErrCorruptRecord is returned when a length or data checksum does not match.
	ErrCorruptRecord = errors.New("tfrecord: corrupt record")
	// ErrRecordTooLarge is returned for records above MaxRecordSize.
	ErrRecordTooLarge = errors.New("tfrecord: record too large")
	// ErrUnknownCompression is returned for unsupported compression names or values.
	ErrUnknownCompression = errors.New("tfrecord: unknown compression")
	// ErrClosed is returned when writing to a closed Writer.
	ErrClosed = errors.New("tfrecord: writer closed")
)

// MaxRecordSize bounds the length accepted on read and write.
const MaxRecordSize = 1 << 31
