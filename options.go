package oidrecord

import (
	"runtime"

	"github.com/hupe1980/oidrecord/codec"
	"github.com/hupe1980/oidrecord/example"
	"github.com/hupe1980/oidrecord/tfrecord"
)

type options struct {
	numShards         int
	compression       tfrecord.Compression
	router            Router
	workers           int
	queueDepth        int
	maxFetches        int64
	ioLimit           int64
	skipMissingImages bool
	manifest          bool
	codec             codec.Codec
	metricsCollector  MetricsCollector
	logger            *Logger
	exampleOptions    []example.Option
	progress          func(n int)
}

func defaultOptions() options {
	return options{
		numShards:        1,
		router:           HashImageID(),
		workers:          runtime.GOMAXPROCS(0),
		queueDepth:       64,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures Convert.
type Option func(*options)

// WithNumShards sets the number of output shards. Default 1.
func WithNumShards(n int) Option {
	return func(o *options) {
		o.numShards = n
	}
}

// WithCompression sets the compression of every shard. Default none.
func WithCompression(c tfrecord.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithRouter sets the shard routing policy. Default HashImageID.
func WithRouter(r Router) Option {
	return func(o *options) {
		if r != nil {
			o.router = r
		}
	}
}

// WithWorkers sets the number of goroutines building records.
// Default GOMAXPROCS. With one worker, each shard receives its records in
// table order.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueDepth sets the per-shard buffer of serialized records. Default 64.
func WithQueueDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.queueDepth = n
		}
	}
}

// WithMaxFetches bounds the number of concurrent image fetches. 0 is unbounded.
func WithMaxFetches(n int64) Option {
	return func(o *options) {
		o.maxFetches = n
	}
}

// WithIOLimit bounds shard write throughput in bytes per second. 0 is unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithSkipMissingImages skips images whose bytes are not found instead of
// failing the run. Skipped ids are listed in the Report.
func WithSkipMissingImages(skip bool) Option {
	return func(o *options) {
		o.skipMissingImages = skip
	}
}

// WithManifest writes the Report as <base>.manifest.json once all shards
// are committed.
func WithManifest(enabled bool) Option {
	return func(o *options) {
		o.manifest = enabled
	}
}

// WithCodec configures the codec used for the manifest.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &oidrecord.BasicMetricsCollector{}
//	report, _ := oidrecord.Convert(ctx, table, vocab, images, store, "train.tfrecord",
//	    oidrecord.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithExampleOptions forwards options to example.FromAnnotations.
func WithExampleOptions(optFns ...example.Option) Option {
	return func(o *options) {
		o.exampleOptions = append(o.exampleOptions, optFns...)
	}
}

// WithProgress registers a callback invoked with 1 for every finished image.
// It is called from multiple goroutines.
func WithProgress(fn func(n int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}
