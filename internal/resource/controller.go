package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxFetches is the maximum number of concurrent image fetches.
	// If 0, fetches are unbounded.
	MaxFetches int64

	// IOLimitBytesPerSec is the maximum write throughput into sinks.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages fetch concurrency and write throughput.
type Controller struct {
	cfg Config

	fetchSem  *semaphore.Weighted // nil if unbounded
	ioLimiter *rate.Limiter       // nil if unlimited

	written atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxFetches > 0 {
		c.fetchSem = semaphore.NewWeighted(cfg.MaxFetches)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireFetch reserves a fetch slot. Blocks while all slots are busy.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil || c.fetchSem == nil {
		return nil
	}
	return c.fetchSem.Acquire(ctx, 1)
}

// ReleaseFetch releases a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil || c.fetchSem == nil {
		return
	}
	c.fetchSem.Release(1)
}

// AcquireIO waits until the IO limit allows writing n bytes.
//
// Requests larger than the burst are split so a single oversized record
// never fails the limiter.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil {
		return nil
	}
	if c.ioLimiter != nil {
		burst := c.ioLimiter.Burst()
		for remaining := n; remaining > 0; remaining -= burst {
			if err := c.ioLimiter.WaitN(ctx, min(remaining, burst)); err != nil {
				return err
			}
		}
	}
	c.written.Add(int64(n))
	return nil
}

// BytesWritten returns the number of bytes admitted through AcquireIO.
func (c *Controller) BytesWritten() int64 {
	if c == nil {
		return 0
	}
	return c.written.Load()
}
