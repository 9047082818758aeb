package oidrecord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/example"
	"github.com/hupe1980/oidrecord/tfrecord"
)

// ReadShard decodes every record of the shard stored under name and calls
// fn for each in file order. Iteration stops at the first error from fn.
func ReadShard(ctx context.Context, store blobstore.BlobStore, name string, fn func(*example.Example) error, optFns ...tfrecord.Option) error {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer blob.Close()

	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return err
	}
	defer rc.Close()

	tr, err := tfrecord.NewReader(rc, optFns...)
	if err != nil {
		return err
	}
	defer tr.Close()

	for i := 0; ; i++ {
		record, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("oidrecord: %s record %d: %w", name, i, err)
		}

		ex, err := example.Unmarshal(record)
		if err != nil {
			return fmt.Errorf("oidrecord: %s record %d: %w", name, i, err)
		}
		if err := fn(ex); err != nil {
			return err
		}
	}
}

// ShardNames lists the shards written for base, in index order.
func ShardNames(ctx context.Context, store blobstore.BlobStore, base string) ([]string, error) {
	names, err := store.List(ctx, base+"-")
	if err != nil {
		return nil, err
	}

	shards := names[:0]
	for _, n := range names {
		if isShardName(n, base) {
			shards = append(shards, n)
		}
	}
	return shards, nil
}

// isShardName reports whether name has the form base-<digits>-of-<digits>.
func isShardName(name, base string) bool {
	rest, ok := strings.CutPrefix(name, base+"-")
	if !ok {
		return false
	}
	index, count, ok := strings.Cut(rest, "-of-")
	return ok && allDigits(index) && allDigits(count) && len(index) == len(count)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
