package tfrecord

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/oidrecord/internal/hash"
)

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("abc")))
	require.NoError(t, w.Close())

	raw := buf.Bytes()
	require.Len(t, raw, 12+3+4)
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(raw[:8]))
	assert.Equal(t, hash.MaskedCRC32C(raw[:8]), binary.LittleEndian.Uint32(raw[8:12]))
	assert.Equal(t, []byte("abc"), raw[12:15])
	assert.Equal(t, hash.MaskedCRC32C([]byte("abc")), binary.LittleEndian.Uint32(raw[15:]))
	assert.Equal(t, int64(1), w.Records())
	assert.Equal(t, int64(19), w.Bytes())
}

func TestRoundTrip(t *testing.T) {
	records := [][]byte{[]byte("test_0"), {}, bytes.Repeat([]byte{0xab}, 200_000), []byte("last")}

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZlib, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, WithCompression(c), WithBufferSize(1024))
			require.NoError(t, err)
			for _, r := range records {
				require.NoError(t, w.Write(r))
			}
			require.NoError(t, w.Close())

			got, err := ReadAll(&buf, WithCompression(c))
			require.NoError(t, err)
			require.Len(t, got, len(records))
			for i := range records {
				assert.True(t, bytes.Equal(records[i], got[i]), "record %d", i)
			}
		})
	}
}

func TestReaderEmpty(t *testing.T) {
	r, err := NewReader(bytes.NewReader(nil))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderCorrupt(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("payload")))
	require.NoError(t, w.Close())

	t.Run("data", func(t *testing.T) {
		raw := bytes.Clone(buf.Bytes())
		raw[13] ^= 0xff
		_, err := ReadAll(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptRecord)

		got, err := ReadAll(bytes.NewReader(raw), WithSkipChecksums())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("length", func(t *testing.T) {
		raw := bytes.Clone(buf.Bytes())
		raw[9] ^= 0xff
		_, err := ReadAll(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptRecord)
	})

	t.Run("truncated", func(t *testing.T) {
		raw := buf.Bytes()
		_, err := ReadAll(bytes.NewReader(raw[:len(raw)-2]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

		_, err = ReadAll(bytes.NewReader(raw[:5]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestWriterClosed(t *testing.T) {
	w, err := NewWriter(io.Discard)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write([]byte("x")), ErrClosed)
	assert.ErrorIs(t, w.Close(), ErrClosed)
}

type recordingCloser struct {
	bytes.Buffer
	closed, aborted bool
}

func (r *recordingCloser) Close() error { r.closed = true; return nil }
func (r *recordingCloser) Abort() error { r.aborted = true; return nil }

func TestOwningWriter(t *testing.T) {
	dst := &recordingCloser{}
	w, err := NewOwningWriter(dst, WithCompression(CompressionGzip))
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("x")))
	require.NoError(t, w.Close())
	assert.True(t, dst.closed)
	assert.False(t, dst.aborted)

	got, err := ReadAll(&dst.Buffer, WithCompression(CompressionGzip))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("x")}, got)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{
		"": CompressionNone, "none": CompressionNone, "GZIP": CompressionGzip,
		"zlib": CompressionZlib, "zstd": CompressionZstd, " lz4 ": CompressionLZ4,
	} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
