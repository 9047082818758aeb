package shard

import (
	"errors"
	"io"
	"slices"
	"sync"
)

// ErrStackClosed is returned when registering on a closed Stack.
var ErrStackClosed = errors.New("shard: stack closed")

// Stack closes registered resources in reverse registration order.
// The zero value is ready to use. A Stack is safe for concurrent use.
type Stack struct {
	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// closerFunc adapts a function to io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Push registers c. If the Stack is already closed, c is closed right away
// and ErrStackClosed is returned together with any close error.
func (s *Stack) Push(c io.Closer) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.Join(ErrStackClosed, c.Close())
	}
	s.closers = append(s.closers, c)
	s.mu.Unlock()
	return nil
}

// Defer registers fn to run on Close.
func (s *Stack) Defer(fn func() error) error {
	return s.Push(closerFunc(fn))
}

// Len returns the number of registered resources not yet closed.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.closers)
}

// Close closes every registered resource once, last registered first, and
// returns all errors joined. Later calls return nil.
func (s *Stack) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for _, c := range slices.Backward(closers) {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// moveTo transfers all resources to dst, keeping their order.
func (s *Stack) moveTo(dst *Stack) error {
	s.mu.Lock()
	closers := s.closers
	s.closers = nil
	s.closed = true
	s.mu.Unlock()

	dst.mu.Lock()
	if dst.closed {
		dst.mu.Unlock()
		moved := &Stack{closers: closers}
		return errors.Join(ErrStackClosed, moved.Close())
	}
	dst.closers = append(dst.closers, closers...)
	dst.mu.Unlock()
	return nil
}
