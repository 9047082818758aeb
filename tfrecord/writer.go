package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/hupe1980/oidrecord/internal/hash"
)

const headerSize = 12 // uint64 length + uint32 length crc

// Writer appends records to a TFRecord stream.
type Writer struct {
	dst  io.Writer
	comp io.WriteCloser
	buf  *bufio.Writer

	closer io.Closer // optional owner of dst

	scratch [headerSize]byte
	records int64
	bytes   int64
	closed  bool
}

// NewWriter returns a Writer appending to w. Close does not close w.
func NewWriter(w io.Writer, optFns ...Option) (*Writer, error) {
	opts := applyOptions(optFns)

	comp, err := newCompressor(w, opts.Compression)
	if err != nil {
		return nil, err
	}

	return &Writer{
		dst:  w,
		comp: comp,
		buf:  bufio.NewWriterSize(comp, opts.BufferSize),
	}, nil
}

// NewOwningWriter returns a Writer whose Close also closes w.
func NewOwningWriter(w io.WriteCloser, optFns ...Option) (*Writer, error) {
	tw, err := NewWriter(w, optFns...)
	if err != nil {
		return nil, err
	}
	tw.closer = w
	return tw, nil
}

// Write appends one record.
func (w *Writer) Write(record []byte) error {
	if w.closed {
		return ErrClosed
	}
	if int64(len(record)) > MaxRecordSize {
		return ErrRecordTooLarge
	}

	binary.LittleEndian.PutUint64(w.scratch[:8], uint64(len(record)))
	binary.LittleEndian.PutUint32(w.scratch[8:], hash.MaskedCRC32C(w.scratch[:8]))
	if _, err := w.buf.Write(w.scratch[:]); err != nil {
		return err
	}
	if _, err := w.buf.Write(record); err != nil {
		return err
	}

	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], hash.MaskedCRC32C(record))
	if _, err := w.buf.Write(footer[:]); err != nil {
		return err
	}

	w.records++
	w.bytes += int64(headerSize + len(record) + 4)
	return nil
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	return w.buf.Flush()
}

// Records returns the number of records written.
func (w *Writer) Records() int64 { return w.records }

// Bytes returns the number of framed, uncompressed bytes written.
func (w *Writer) Bytes() int64 { return w.bytes }

// Close flushes buffered records and finishes the compression stream.
// Closing twice returns ErrClosed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	err := w.buf.Flush()
	err = errors.Join(err, w.comp.Close())
	if w.closer != nil {
		if err != nil {
			// Do not commit a shard whose tail never made it out.
			if a, ok := w.closer.(interface{ Abort() error }); ok {
				return errors.Join(err, a.Abort())
			}
		}
		err = errors.Join(err, w.closer.Close())
	}
	return err
}
