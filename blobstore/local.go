package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ifs "github.com/hupe1980/oidrecord/internal/fs"
	"github.com/hupe1980/oidrecord/internal/mmap"
)

const tmpSuffix = ".tmp"

// LocalStore implements BlobStore using the local file system.
//
// Blobs are written to a temporary sibling and renamed into place on Close,
// so readers never observe a half-written shard under its final name.
type LocalStore struct {
	root string
	fs   ifs.FileSystem
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the file system used for writes (e.g. a fault injector).
func WithFileSystem(fsys ifs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// An empty root resolves names relative to the working directory.
func NewLocalStore(root string, optFns ...LocalOption) *LocalStore {
	s := &LocalStore{root: root, fs: ifs.Default}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open opens a blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	// Shards are consumed front to back.
	_ = m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Create creates a new writable blob.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	final := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return nil, err
	}

	tmp := final + tmpSuffix
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &localWritableBlob{fs: s.fs, f: f, tmp: tmp, final: final}, nil
}

// Put writes a blob atomically.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.(Abortable).Abort()
		return err
	}
	return w.Close()
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := s.fs.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blob names with the given prefix, using forward slashes.
// The walk starts at the directory part of prefix and only descends into
// directories that can hold matching names.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var rel string
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		rel = prefix[:i]
	}

	dir := s.path(rel)
	if dir == "" {
		dir = "."
	}

	var names []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			name := e.Name()
			if rel != "" {
				name = rel + "/" + name
			}
			if e.IsDir() {
				if !strings.HasPrefix(name+"/", prefix) && !strings.HasPrefix(prefix, name+"/") {
					continue
				}
				if err := walk(filepath.Join(dir, e.Name()), name); err != nil {
					return err
				}
				continue
			}
			if strings.HasSuffix(name, tmpSuffix) || !strings.HasPrefix(name, prefix) {
				continue
			}
			names = append(names, name)
		}
		return nil
	}

	if err := walk(dir, rel); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.m.ReadAt(p, off)
}

func (b *localBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	end, err := clipRange(off, length, b.m.Size())
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b.m.Bytes()[off:end])), nil
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return b.m.Size()
}

type localWritableBlob struct {
	fs     ifs.FileSystem
	f      ifs.File
	tmp    string
	final  string
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.f.Write(p)
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}

// Close flushes the file and renames it into place.
func (w *localWritableBlob) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true

	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		_ = w.fs.Remove(w.tmp)
		return err
	}
	if err := w.f.Close(); err != nil {
		_ = w.fs.Remove(w.tmp)
		return err
	}
	return w.fs.Rename(w.tmp, w.final)
}

// Abort discards the partial write.
func (w *localWritableBlob) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.f.Close()
	if rmErr := w.fs.Remove(w.tmp); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
