// Package blobstore provides the storage abstraction behind shard sinks.
//
// Shards are written through [BlobStore.Create] and read back through
// [BlobStore.Open]. Implementations must be safe for concurrent use;
// individual blob handles are not.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic rename on close, mmap reads
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with streaming multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
// Implement BlobStore to support other backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
