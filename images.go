package oidrecord

import (
	"context"
	"path"

	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/example"
)

// ImageSource returns the encoded bytes of an image.
// Implementations must be safe for concurrent use.
type ImageSource interface {
	Fetch(ctx context.Context, imageID string) ([]byte, error)
}

// ImageSourceFunc adapts a function to ImageSource.
type ImageSourceFunc func(ctx context.Context, imageID string) ([]byte, error)

// Fetch implements ImageSource.
func (f ImageSourceFunc) Fetch(ctx context.Context, imageID string) ([]byte, error) {
	return f(ctx, imageID)
}

// StoreImages reads <dir>/<id>.jpg from store. A missing image yields an
// error matching blobstore.ErrNotFound.
func StoreImages(store blobstore.BlobStore, dir string) ImageSource {
	return ImageSourceFunc(func(ctx context.Context, imageID string) ([]byte, error) {
		return blobstore.ReadAll(ctx, store, path.Join(dir, imageID+example.FilenameSuffix))
	})
}
