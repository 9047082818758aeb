package shard

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidShardCount is returned for shard counts below one.
var ErrInvalidShardCount = errors.New("shard: shard count must be at least 1")

// Sink is an append-only record writer.
type Sink interface {
	Write(record []byte) error
	Close() error
}

// OpenFunc opens the sink stored at path.
type OpenFunc func(ctx context.Context, path string) (Sink, error)

// OpenError reports the shard whose sink could not be opened.
type OpenError struct {
	Index int
	Path  string
	Err   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("shard: open %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Open opens count sinks named by Name(base, i, count) in ascending order and
// returns them index 0 first. On success every sink is registered on stack.
//
// If a sink fails to open, the sinks opened so far are closed in reverse
// order before Open returns an *OpenError; their close errors are joined to
// it. The caller's stack is left untouched in that case.
func Open(ctx context.Context, stack *Stack, base string, count int, open OpenFunc) ([]Sink, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, count)
	}
	if stack == nil {
		return nil, errors.New("shard: nil stack")
	}

	local := &Stack{}
	sinks := make([]Sink, 0, count)

	for i := range count {
		path := Name(base, i, count)

		err := ctx.Err()
		var sink Sink
		if err == nil {
			sink, err = open(ctx, path)
		}
		if err != nil {
			openErr := &OpenError{Index: i, Path: path, Err: err}
			if cerr := local.Close(); cerr != nil {
				return nil, errors.Join(openErr, cerr)
			}
			return nil, openErr
		}

		_ = local.Push(sink)
		sinks = append(sinks, sink)
	}

	if err := local.moveTo(stack); err != nil {
		return nil, err
	}
	return sinks, nil
}
