package oidrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/oidrecord/annotation"
	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/codec"
)

// ManifestSuffix is appended to the output base to name the manifest.
const ManifestSuffix = ".manifest.json"

// Report summarizes a conversion run.
type Report struct {
	Base          string                 `json:"base"`
	NumShards     int                    `json:"num_shards"`
	Compression   string                 `json:"compression"`
	Codec         string                 `json:"codec"`
	Images        int                    `json:"images"`
	SkippedImages []string               `json:"skipped_images,omitempty"`
	BoxesKept     int64                  `json:"boxes_kept"`
	BoxesDropped  int64                  `json:"boxes_dropped"`
	Shards        []ShardStats           `json:"shards"`
	Labels        []annotation.LabelStat `json:"labels"`
	StartedAt     time.Time              `json:"started_at"`
	Duration      time.Duration          `json:"duration_ns"`
}

// ShardStats describes one written shard.
type ShardStats struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Records int64  `json:"records"`
	Bytes   int64  `json:"bytes"`
}

// Records returns the total number of records over all shards.
func (r *Report) Records() int64 {
	var n int64
	for _, s := range r.Shards {
		n += s.Records
	}
	return n
}

// ReadManifest loads the manifest written for base. A nil codec uses codec.Default.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, base string, c codec.Codec) (*Report, error) {
	if c == nil {
		c = codec.Default
	}

	data, err := blobstore.ReadAll(ctx, store, base+ManifestSuffix)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := c.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("oidrecord: decode manifest: %w", err)
	}
	return &r, nil
}

func writeManifest(ctx context.Context, store blobstore.BlobStore, r *Report, c codec.Codec) error {
	data, err := c.Marshal(r)
	if err != nil {
		return fmt.Errorf("oidrecord: encode manifest: %w", err)
	}
	return store.Put(ctx, r.Base+ManifestSuffix, data)
}
