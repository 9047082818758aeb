// Package promcollector exports conversion metrics to Prometheus.
package promcollector

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/oidrecord"
)

var _ oidrecord.MetricsCollector = (*Collector)(nil)

// Collector implements oidrecord.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	fetchedBytes prometheus.Counter
	boxes        *prometheus.CounterVec
	shardRecords *prometheus.CounterVec
	shardBytes   *prometheus.CounterVec
	skipped      prometheus.Counter
}

// New creates a Collector and registers its metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oidrecord_operation_latency_seconds",
			Help:    "Latency of conversion operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		fetchedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oidrecord_fetched_bytes_total",
			Help: "Total encoded image bytes fetched",
		}),
		boxes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oidrecord_boxes_total",
			Help: "Boxes seen, by whether the vocabulary kept them",
		}, []string{"result"}),
		shardRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oidrecord_shard_records_total",
			Help: "Records appended per shard",
		}, []string{"shard"}),
		shardBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oidrecord_shard_bytes_total",
			Help: "Serialized record bytes appended per shard",
		}, []string{"shard"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oidrecord_skipped_images_total",
			Help: "Images skipped because their bytes were missing",
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.fetchedBytes, c.boxes, c.shardRecords, c.shardBytes, c.skipped} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordFetch implements oidrecord.MetricsCollector.
func (c *Collector) RecordFetch(d time.Duration, bytes int, err error) {
	c.opLatency.WithLabelValues("fetch", status(err)).Observe(d.Seconds())
	if err == nil {
		c.fetchedBytes.Add(float64(bytes))
	}
}

// RecordExample implements oidrecord.MetricsCollector.
func (c *Collector) RecordExample(kept, dropped int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.boxes.WithLabelValues("kept").Add(float64(kept))
	c.boxes.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordWrite implements oidrecord.MetricsCollector.
func (c *Collector) RecordWrite(shard, bytes int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("write", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	label := strconv.Itoa(shard)
	c.shardRecords.WithLabelValues(label).Inc()
	c.shardBytes.WithLabelValues(label).Add(float64(bytes))
}

// RecordSkip implements oidrecord.MetricsCollector.
func (c *Collector) RecordSkip() {
	c.skipped.Inc()
}
