// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/oid-v4/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	report, err := oidrecord.Convert(ctx, table, labels, images, store, "train.tfrecord")
//
// # Features
//
//   - Streaming multipart uploads, one per open shard
//   - Range reads for shard inspection
//   - Automatic pagination for listing
//   - Configurable prefix for multi-dataset buckets
package s3
