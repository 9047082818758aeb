package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxesCSV = `ImageID,Source,LabelName,Confidence,XMin,XMax,YMin,YMax,IsOccluded,IsTruncated,IsGroupOf,IsDepiction,IsInside
i1,xclick,a,1,0.1,0.2,0.3,0.3,0,0,0,1,0
i1,xclick,a,1,0.3,0.3,0.6,0.6,1,0,0,0,0
i1,xclick,b,1,0.7,0.8,0.8,1,1,0,0,0,0
i1,xclick,b,1,0.0,0.5,0.1,0.8,0,1,0,0,0
i2,xclick,b,1,0.1,0.9,0.0,0.8,0,0,0,0,0
i2,xclick,c,1,0.1,0.9,0.0,0.8,0,0,1,0,0
`

type fixture struct {
	dir, annotations, labelMap, images, output string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	f := fixture{
		dir:         dir,
		annotations: filepath.Join(dir, "boxes.csv"),
		labelMap:    filepath.Join(dir, "labels.json"),
		images:      filepath.Join(dir, "images"),
		output:      filepath.Join(dir, "out", "train.tfrecord"),
	}

	require.NoError(t, os.WriteFile(f.annotations, []byte(boxesCSV), 0o600))
	require.NoError(t, os.WriteFile(f.labelMap, []byte(`{"a": 0, "b": 1, "c": 2}`), 0o600))
	require.NoError(t, os.MkdirAll(f.images, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.images, "i1.jpg"), []byte("123"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(f.images, "i2.jpg"), []byte("456"), 0o600))
	return f
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (f fixture) convertArgs(extra ...string) []string {
	args := []string{
		"convert",
		"--annotations", f.annotations,
		"--label-map", f.labelMap,
		"--images", f.images,
		"--output", f.output,
		"--progress=false",
		"--log-level", "error",
	}
	return append(args, extra...)
}

func TestConvertAndInspect(t *testing.T) {
	f := newFixture(t)

	stdout, stderr, code := run(t, f.convertArgs("--shards", "2", "--router", "round-robin", "--workers", "1", "--compression", "gzip")...)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "wrote 2 records to 2 shards (6 boxes kept, 0 dropped, 0 images skipped)")
	assert.Contains(t, stdout, "train.tfrecord-00000-of-00002")

	for _, name := range []string{"train.tfrecord-00000-of-00002", "train.tfrecord-00001-of-00002", "train.tfrecord.manifest.json"} {
		assert.FileExists(t, filepath.Join(f.dir, "out", name))
	}

	stdout, stderr, code = run(t, "inspect", "--compression", "gzip", f.output+"-00000-of-00002")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "i1\ti1.jpg\t3 bytes\t4 boxes\t[a a b b]\n", stdout)

	stdout, stderr, code = run(t, "inspect", "--compression", "gzip", "--json", f.output+"-00001-of-00002")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"source_id":"i2"`)
	assert.Contains(t, stdout, `"labels":[1,2]`)

	stdout, stderr, code = run(t, "inspect", "--manifest", f.output)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"num_shards": 2`)
	assert.Contains(t, stdout, `"compression": "gzip"`)
}

func TestConvertEnvironmentAndConfig(t *testing.T) {
	f := newFixture(t)

	t.Setenv("OIDRECORD_SHARDS", "3")
	_, stderr, code := run(t, f.convertArgs("--manifest=false")...)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(f.dir, "out", "train.tfrecord-00002-of-00003"))
	assert.NoFileExists(t, filepath.Join(f.dir, "out", "train.tfrecord.manifest.json"))

	// an explicit flag wins over the environment
	single := filepath.Join(f.dir, "out", "single")
	_, stderr, code = run(t, append(f.convertArgs("--shards", "1"), "--output", single)...)
	require.Equal(t, 0, code, stderr)

	cfg := filepath.Join(f.dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("limit: 1\nlog-level: error\n"), 0o600))

	stdout, stderr, code := run(t, "inspect", "--config", cfg, single+"-00000-of-00001")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))

	stdout, stderr, code = run(t, "inspect", single+"-00000-of-00001")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 2, strings.Count(stdout, "\n"))
}

func TestConvertMissingImages(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.images, "i2.jpg")))

	_, stderr, code := run(t, f.convertArgs()...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "image i2")

	stdout, stderr, code := run(t, f.convertArgs("--skip-missing")...)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1 images skipped")
}

func TestCommandErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flag", []string{"convert", "--annotations", f.annotations}, `required flag "label-map"`},
		{"bad compression", f.convertArgs("--compression", "brotli"), "unknown compression"},
		{"bad router", f.convertArgs("--router", "random"), "invalid router"},
		{"bad shards", f.convertArgs("--shards", "0"), "shard count"},
		{"bad log format", []string{"version", "--log-format", "xml"}, "invalid log format"},
		{"bad scheme", f.convertArgs("--images", "ftp://host/x"), "unsupported scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, code := run(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "oidrecord dev\n", stdout)
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		in, dir, name string
	}{
		{"s3://bucket/data/train.tfrecord", "s3://bucket/data", "train.tfrecord"},
		{"s3://bucket/train.tfrecord", "s3://bucket", "train.tfrecord"},
		{"s3://bucket", "s3://bucket", ""},
		{"minio://host:9000/bucket/x", "minio://host:9000/bucket", "x"},
		{filepath.Join("out", "train"), "out", "train"},
	}

	for _, tt := range tests {
		dir, name := splitLocation(tt.in)
		assert.Equal(t, tt.dir, dir, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
}
