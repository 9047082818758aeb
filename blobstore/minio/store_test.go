package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance, configured via
// OIDRECORD_MINIO_ENDPOINT (and optionally OIDRECORD_MINIO_ACCESS_KEY/SECRET_KEY).
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("OIDRECORD_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("OIDRECORD_MINIO_ENDPOINT not set")
	}
	accessKey := envOr("OIDRECORD_MINIO_ACCESS_KEY", "minioadmin")
	secretKey := envOr("OIDRECORD_MINIO_SECRET_KEY", "minioadmin")
	bucket := "test-oidrecord"

	store, err := Connect(endpoint, accessKey, secretKey, false, bucket, "test-prefix/")
	require.NoError(t, err)

	ctx := context.Background()

	exists, err := store.client.BucketExists(ctx, bucket)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	w, err := store.Create(ctx, "shard-00000-of-00001")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := blobstore.ReadAll(ctx, store, "shard-00000-of-00001")
	require.NoError(t, err)
	require.Equal(t, "streamed", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Contains(t, names, "test.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	require.NoError(t, store.Delete(ctx, "shard-00000-of-00001"))

	_, err = store.Open(ctx, "test.txt")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
