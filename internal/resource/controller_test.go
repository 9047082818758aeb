package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Fetch(t *testing.T) {
	c := NewController(Config{MaxFetches: 1})
	ctx := context.Background()

	require.NoError(t, c.AcquireFetch(ctx))

	// Second acquire blocks until the deadline.
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireFetch(timeoutCtx), context.DeadlineExceeded)

	c.ReleaseFetch()
	require.NoError(t, c.AcquireFetch(ctx))
	c.ReleaseFetch()
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	require.NoError(t, c.AcquireIO(ctx, 512))
	require.NoError(t, c.AcquireIO(ctx, 512))
	assert.Equal(t, int64(1024), c.BytesWritten())
}

func TestController_IOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.AcquireIO(ctx, 1500))
	assert.Equal(t, int64(1500), c.BytesWritten())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, c.AcquireFetch(ctx))
	}
	require.NoError(t, c.AcquireIO(ctx, 1<<30))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	assert.NoError(t, c.AcquireFetch(ctx))
	c.ReleaseFetch()
	assert.NoError(t, c.AcquireIO(ctx, 10))
	assert.Equal(t, int64(0), c.BytesWritten())
}
