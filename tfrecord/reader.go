package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/oidrecord/internal/hash"
)

// Reader iterates the records of a TFRecord stream.
type Reader struct {
	src    io.ReadCloser
	r      *bufio.Reader
	verify bool

	offset int64
	header [headerSize]byte
}

// NewReader returns a Reader over r. Close releases the decompressor only.
func NewReader(r io.Reader, optFns ...Option) (*Reader, error) {
	opts := applyOptions(optFns)

	src, err := newDecompressor(r, opts.Compression)
	if err != nil {
		return nil, err
	}

	return &Reader{
		src:    src,
		r:      bufio.NewReaderSize(src, opts.BufferSize),
		verify: !opts.SkipChecksums,
	}, nil
}

// Next returns the next record. It returns io.EOF after the last record and
// io.ErrUnexpectedEOF for a truncated stream.
func (r *Reader) Next() ([]byte, error) {
	n, err := io.ReadFull(r.r, r.header[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}

	if r.verify && binary.LittleEndian.Uint32(r.header[8:]) != hash.MaskedCRC32C(r.header[:8]) {
		return nil, fmt.Errorf("%w: length checksum at offset %d", ErrCorruptRecord, r.offset)
	}

	length := binary.LittleEndian.Uint64(r.header[:8])
	if length > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrRecordTooLarge, length, r.offset)
	}

	data := make([]byte, length+4)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, io.ErrUnexpectedEOF
	}

	record, footer := data[:length], data[length:]
	if r.verify && binary.LittleEndian.Uint32(footer) != hash.MaskedCRC32C(record) {
		return nil, fmt.Errorf("%w: data checksum at offset %d", ErrCorruptRecord, r.offset)
	}

	r.offset += int64(headerSize) + int64(length) + 4
	return record, nil
}

// Close releases the decompressor.
func (r *Reader) Close() error {
	return r.src.Close()
}

// ReadAll reads every record of a stream.
func ReadAll(r io.Reader, optFns ...Option) ([][]byte, error) {
	tr, err := NewReader(r, optFns...)
	if err != nil {
		return nil, err
	}
	defer tr.Close()

	var records [][]byte
	for {
		rec, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
