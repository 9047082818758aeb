package promcollector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/oidrecord"
	"github.com/hupe1980/oidrecord/annotation"
	"github.com/hupe1980/oidrecord/blobstore"
	"github.com/hupe1980/oidrecord/labelmap"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordFetch(time.Millisecond, 100, nil)
	c.RecordFetch(time.Millisecond, 0, errors.New("boom"))
	c.RecordExample(3, 1, time.Millisecond, nil)
	c.RecordWrite(2, 50, time.Millisecond, nil)
	c.RecordWrite(2, 70, time.Millisecond, nil)
	c.RecordSkip()

	assert.Equal(t, 100.0, testutil.ToFloat64(c.fetchedBytes))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.boxes.WithLabelValues("kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.boxes.WithLabelValues("dropped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.shardRecords.WithLabelValues("2")))
	assert.Equal(t, 120.0, testutil.ToFloat64(c.shardBytes.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skipped))

	_, err = New(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestCollectorWithConvert(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	table := &annotation.Table{Rows: []annotation.Row{
		{ImageID: "i1", LabelName: "a"},
		{ImageID: "i1", LabelName: "x"},
	}}
	vocab, err := labelmap.FromMap(map[string]int64{"a": 0})
	require.NoError(t, err)

	images := oidrecord.ImageSourceFunc(func(context.Context, string) ([]byte, error) { return []byte("img"), nil })

	_, err = oidrecord.Convert(ctx, table, vocab, images, blobstore.NewMemoryStore(), "p", oidrecord.WithMetricsCollector(c))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.boxes.WithLabelValues("kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.boxes.WithLabelValues("dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.shardRecords.WithLabelValues("0")))
}
