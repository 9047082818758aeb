package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	info2, err := lfs.Stat(newPath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_FailOnOpen(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("bad", Fault{FailOnOpen: true})

	_, err := ffs.OpenFile(filepath.Join(tmp, "bad.bin"), os.O_CREATE|os.O_WRONLY, 0644)
	require.ErrorIs(t, err, ErrInjected)

	good := filepath.Join(tmp, "good.bin")
	f, err := ffs.OpenFile(good, os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []string{good}, ffs.Opened())
	assert.Equal(t, []string{good}, ffs.Closed())
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 4})

	f, err := ffs.OpenFile(filepath.Join(tmp, "limited.bin"), os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abcd"))
	require.NoError(t, err)

	_, err = f.Write([]byte("e"))
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_SyncAndClose(t *testing.T) {
	tmp := t.TempDir()
	custom := os.ErrPermission
	ffs := NewFaultyFS(nil)
	ffs.AddRule("x", Fault{FailOnSync: true, FailOnClose: true, Err: custom})

	f, err := ffs.OpenFile(filepath.Join(tmp, "x.bin"), os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Sync(), custom)
	assert.ErrorIs(t, f.Close(), custom)
}
