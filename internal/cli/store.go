package cli

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupe1980/oidrecord/blobstore"
	miniostore "github.com/hupe1980/oidrecord/blobstore/minio"
	s3store "github.com/hupe1980/oidrecord/blobstore/s3"
)

// openStore resolves a location to a blob store rooted at it:
//
//	s3://bucket/prefix
//	minio://endpoint/bucket/prefix
//	/local/dir or relative/dir
//
// MinIO credentials come from minio-access-key and minio-secret-key.
func openStore(ctx context.Context, v *viper.Viper, location string) (blobstore.BlobStore, error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return blobstore.NewLocalStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}

	switch scheme {
	case "s3":
		optFns := []func(*s3store.Options){s3store.WithPrefix(strings.TrimPrefix(u.Path, "/"))}
		if r := v.GetString("s3-region"); r != "" {
			optFns = append(optFns, s3store.WithRegion(r))
		}
		if e := v.GetString("s3-endpoint"); e != "" {
			optFns = append(optFns, s3store.WithEndpoint(e))
		}
		return s3store.New(ctx, u.Host, optFns...)
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid location %q: missing bucket", location)
		}
		return miniostore.Connect(u.Host,
			v.GetString("minio-access-key"),
			v.GetString("minio-secret-key"),
			v.GetBool("minio-secure"),
			bucket, prefix)
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %q", scheme, rest)
	}
}

// splitLocation splits a file location into its parent location and name.
func splitLocation(location string) (dir, name string) {
	if strings.Contains(location, "://") {
		i := strings.LastIndex(location, "/")
		if strings.HasSuffix(location[:i+1], "://") {
			return location, ""
		}
		return location[:i], location[i+1:]
	}
	return filepath.Dir(location), filepath.Base(location)
}
