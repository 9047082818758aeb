package tfrecord

// Options configures readers and writers.
type Options struct {
	// Compression applied to the whole file.
	Compression Compression
	// BufferSize is the size of the write/read buffer. Default 64KiB.
	BufferSize int
	// SkipChecksums disables CRC verification on read.
	SkipChecksums bool
}

// Option configures Options.
type Option func(*Options)

// WithCompression sets the file compression.
func WithCompression(c Compression) Option {
	return func(o *Options) { o.Compression = c }
}

// WithBufferSize sets the IO buffer size.
func WithBufferSize(n int) Option {
	return func(o *Options) { o.BufferSize = n }
}

// WithSkipChecksums disables CRC verification on read.
func WithSkipChecksums() Option {
	return func(o *Options) { o.SkipChecksums = true }
}

func applyOptions(optFns []Option) Options {
	opts := Options{BufferSize: 64 * 1024}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 64 * 1024
	}
	return opts
}
