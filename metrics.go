package oidrecord

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting conversion metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus; see package promcollector.
type MetricsCollector interface {
	// RecordFetch is called after each image fetch.
	RecordFetch(duration time.Duration, bytes int, err error)

	// RecordExample is called after each record is built and serialized.
	// kept and dropped count the boxes retained and filtered by the vocabulary.
	RecordExample(kept, dropped int, duration time.Duration, err error)

	// RecordWrite is called after each record is appended to a shard.
	RecordWrite(shard, bytes int, duration time.Duration, err error)

	// RecordSkip is called for every image skipped because its bytes are missing.
	RecordSkip()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(time.Duration, int, error)        {}
func (NoopMetricsCollector) RecordExample(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordWrite(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSkip()                                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount        atomic.Int64
	FetchErrors       atomic.Int64
	FetchBytes        atomic.Int64
	FetchTotalNanos   atomic.Int64
	ExampleCount      atomic.Int64
	ExampleErrors     atomic.Int64
	BoxesKept         atomic.Int64
	BoxesDropped      atomic.Int64
	ExampleTotalNanos atomic.Int64
	WriteCount        atomic.Int64
	WriteErrors       atomic.Int64
	WriteBytes        atomic.Int64
	SkipCount         atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, bytes int, err error) {
	b.FetchCount.Add(1)
	b.FetchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FetchErrors.Add(1)
		return
	}
	b.FetchBytes.Add(int64(bytes))
}

// RecordExample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExample(kept, dropped int, duration time.Duration, err error) {
	b.ExampleCount.Add(1)
	b.ExampleTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExampleErrors.Add(1)
		return
	}
	b.BoxesKept.Add(int64(kept))
	b.BoxesDropped.Add(int64(dropped))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(shard, bytes int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(int64(bytes))
}

// RecordSkip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkip() {
	b.SkipCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FetchCount:      b.FetchCount.Load(),
		FetchErrors:     b.FetchErrors.Load(),
		FetchBytes:      b.FetchBytes.Load(),
		FetchAvgNanos:   avg(b.FetchTotalNanos.Load(), b.FetchCount.Load()),
		ExampleCount:    b.ExampleCount.Load(),
		ExampleErrors:   b.ExampleErrors.Load(),
		ExampleAvgNanos: avg(b.ExampleTotalNanos.Load(), b.ExampleCount.Load()),
		BoxesKept:       b.BoxesKept.Load(),
		BoxesDropped:    b.BoxesDropped.Load(),
		WriteCount:      b.WriteCount.Load(),
		WriteErrors:     b.WriteErrors.Load(),
		WriteBytes:      b.WriteBytes.Load(),
		SkipCount:       b.SkipCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FetchCount      int64
	FetchErrors     int64
	FetchBytes      int64
	FetchAvgNanos   int64
	ExampleCount    int64
	ExampleErrors   int64
	ExampleAvgNanos int64
	BoxesKept       int64
	BoxesDropped    int64
	WriteCount      int64
	WriteErrors     int64
	WriteBytes      int64
	SkipCount       int64
}
