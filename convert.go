package oidrecord

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/oidrecord/annotation"
	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/example"
	"github.com/hupe1980/oidrecord/internal/conv"
	"github.com/hupe1980/oidrecord/internal/resource"
	"github.com/hupe1980/oidrecord/shard"
	"github.com/hupe1980/oidrecord/tfrecord"
)

// Convert writes one tf.Example per image of table into numShards TFRecord
// shards named base-IIIII-of-NNNNN in store.
//
// Images are fetched from images and built into records by a pool of
// workers. Each shard is written by exactly one goroutine. All shards are
// closed before Convert returns, including on error or cancellation.
func Convert(
	ctx context.Context,
	table *annotation.Table,
	vocab example.Vocabulary,
	images ImageSource,
	store blobstore.BlobStore,
	base string,
	optFns ...Option,
) (*Report, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	switch {
	case table == nil:
		return nil, ErrNoTable
	case vocab == nil:
		return nil, ErrNoVocabulary
	case images == nil:
		return nil, ErrNoImageSource
	case store == nil:
		return nil, ErrNoStore
	case base == "":
		return nil, ErrEmptyBase
	}

	c := &converter{
		opts:   opts,
		vocab:  vocab,
		images: images,
		groups: table.Groups(),
		labels: annotation.NewLabelIndex(),
		rc: resource.NewController(resource.Config{
			MaxFetches:         opts.maxFetches,
			IOLimitBytesPerSec: opts.ioLimit,
		}),
		report: &Report{
			Base:        base,
			NumShards:   opts.numShards,
			Compression: opts.compression.String(),
			Codec:       opts.codec.Name(),
			StartedAt:   time.Now().UTC(),
		},
	}

	stack := &shard.Stack{}
	sinks, err := shard.Open(ctx, stack, base, opts.numShards, shard.TFRecordOpener(store, tfrecord.WithCompression(opts.compression)))
	opts.logger.LogShardsOpened(ctx, base, opts.numShards, err)
	if err != nil {
		return nil, err
	}

	runErr := c.run(ctx, sinks)
	if err := errors.Join(runErr, stack.Close()); err != nil {
		opts.logger.LogConvert(ctx, nil, err)
		return nil, err
	}

	r := c.finish()
	if opts.manifest {
		if err := writeManifest(ctx, store, r, opts.codec); err != nil {
			opts.logger.LogConvert(ctx, nil, err)
			return nil, err
		}
	}

	opts.logger.LogConvert(ctx, r, nil)
	return r, nil
}

type converter struct {
	opts   options
	vocab  example.Vocabulary
	images ImageSource
	groups []annotation.Group
	labels *annotation.LabelIndex
	rc     *resource.Controller
	report *Report

	kept, dropped atomic.Int64
	written       atomic.Int64

	mu      sync.Mutex
	skipped []string
	shards  []ShardStats
}

func (c *converter) run(ctx context.Context, sinks []shard.Sink) error {
	g, gctx := errgroup.WithContext(ctx)

	queues := make([]chan []byte, len(sinks))
	c.shards = make([]ShardStats, len(sinks))
	for i, sink := range sinks {
		queues[i] = make(chan []byte, c.opts.queueDepth)
		c.shards[i] = ShardStats{Index: i, Path: shard.Name(c.report.Base, i, len(sinks))}
		g.Go(func() error {
			return c.drain(gctx, i, sink, queues[i])
		})
	}

	builders, bctx := errgroup.WithContext(gctx)
	jobs := make(chan int)

	builders.Go(func() error {
		defer close(jobs)
		for seq := range c.groups {
			select {
			case jobs <- seq:
			case <-bctx.Done():
				return bctx.Err()
			}
		}
		return nil
	})

	for range c.opts.workers {
		builders.Go(func() error {
			for seq := range jobs {
				if err := c.build(bctx, seq, queues); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		err := builders.Wait()
		for _, q := range queues {
			close(q)
		}
		return err
	})

	return g.Wait()
}

// build turns group seq into a record and queues it on its shard.
func (c *converter) build(ctx context.Context, seq int, queues []chan []byte) error {
	group := c.groups[seq]

	encoded, err := c.fetch(ctx, group.ImageID)
	if err != nil {
		if c.opts.skipMissingImages && errors.Is(err, blobstore.ErrNotFound) {
			c.opts.logger.LogSkippedImage(ctx, group.ImageID, err)
			c.opts.metricsCollector.RecordSkip()
			c.mu.Lock()
			c.skipped = append(c.skipped, group.ImageID)
			c.mu.Unlock()
			c.advance()
			return nil
		}
		return &ImageError{ImageID: group.ImageID, cause: err}
	}

	start := time.Now()
	ex, err := example.FromAnnotations(group, c.vocab, encoded, c.opts.exampleOptions...)
	var record []byte
	if err == nil {
		record, err = ex.Marshal()
	}
	if err != nil {
		c.opts.metricsCollector.RecordExample(0, 0, time.Since(start), err)
		c.opts.logger.LogExample(ctx, group.ImageID, -1, 0, err)
		return &ImageError{ImageID: group.ImageID, cause: err}
	}

	kept := ex.Boxes()
	c.opts.metricsCollector.RecordExample(kept, len(group.Rows)-kept, time.Since(start), nil)
	c.kept.Add(int64(kept))
	c.dropped.Add(int64(len(group.Rows) - kept))
	ordinal, err := conv.IntToUint32(seq)
	if err != nil {
		return &ImageError{ImageID: group.ImageID, cause: err}
	}
	for _, label := range ex.Strings(example.KeyClassText) {
		c.labels.Add(label, ordinal)
	}

	target := c.opts.router.Route(group.ImageID, seq, len(queues))
	if target < 0 || target >= len(queues) {
		return fmt.Errorf("oidrecord: router sent image %s to shard %d of %d", group.ImageID, target, len(queues))
	}
	c.opts.logger.LogExample(ctx, group.ImageID, target, kept, nil)

	select {
	case queues[target] <- record:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.advance()
	return nil
}

func (c *converter) fetch(ctx context.Context, imageID string) ([]byte, error) {
	if err := c.rc.AcquireFetch(ctx); err != nil {
		return nil, err
	}
	defer c.rc.ReleaseFetch()

	start := time.Now()
	data, err := c.images.Fetch(ctx, imageID)
	c.opts.metricsCollector.RecordFetch(time.Since(start), len(data), err)
	return data, err
}

// drain is the single writer of shard i.
func (c *converter) drain(ctx context.Context, i int, sink shard.Sink, queue <-chan []byte) error {
	var records, bytes int64

	defer func() {
		c.mu.Lock()
		c.shards[i].Records = records
		c.shards[i].Bytes = bytes
		c.mu.Unlock()
	}()

	for record := range queue {
		if err := c.rc.AcquireIO(ctx, len(record)); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		err := sink.Write(record)
		c.opts.metricsCollector.RecordWrite(i, len(record), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("oidrecord: write shard %d: %w", i, err)
		}

		records++
		bytes += int64(len(record))
	}
	c.written.Add(records)
	return nil
}

func (c *converter) advance() {
	if c.opts.progress != nil {
		c.opts.progress(1)
	}
}

func (c *converter) finish() *Report {
	r := c.report
	r.Images = int(c.written.Load())
	r.BoxesKept = c.kept.Load()
	r.BoxesDropped = c.dropped.Load()
	r.Shards = c.shards
	r.Labels = c.labels.Stats()
	r.Duration = time.Since(r.StartedAt)

	r.SkippedImages = c.skipped
	slices.Sort(r.SkippedImages)
	return r
}
