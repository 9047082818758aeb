package shard

import (
	"context"
	"errors"

	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/tfrecord"
)

// TFRecordOpener returns an OpenFunc that creates TFRecord files in store.
// Closing a sink finishes the compression stream and commits the blob.
func TFRecordOpener(store blobstore.BlobStore, optFns ...tfrecord.Option) OpenFunc {
	return func(ctx context.Context, path string) (Sink, error) {
		blob, err := store.Create(ctx, path)
		if err != nil {
			return nil, err
		}

		w, err := tfrecord.NewOwningWriter(blob, optFns...)
		if err != nil {
			if a, ok := blob.(blobstore.Abortable); ok {
				return nil, errors.Join(err, a.Abort())
			}
			return nil, errors.Join(err, blob.Close())
		}
		return w, nil
	}
}
