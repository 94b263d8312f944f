// Package pool provides a fixed-size pool of reusable values shared by
// concurrent workers.
package pool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("pool: closed")

// Pool hands out at most Size values at a time. Acquire blocks until a value
// is released, which also bounds the number of workers holding one.
type Pool[T any] struct {
	items  chan T
	size   int
	reset  func(T)
	mu     sync.Mutex
	closed bool
}

// New creates a pool of size values built by newFn. Size <= 0 means 1.
// reset, if non-nil, is applied to a value when it is released.
func New[T any](size int, newFn func() T, reset func(T)) *Pool[T] {
	if size <= 0 {
		size = 1
	}

	p := &Pool[T]{
		items: make(chan T, size),
		size:  size,
		reset: reset,
	}
	for i := 0; i < size; i++ {
		p.items <- newFn()
	}
	return p
}

// Acquire gets a value from the pool, blocking if none is available.
// Respects context cancellation.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-p.items:
		if !ok {
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Release returns v to the pool. Values released after Close are dropped.
func (p *Pool[T]) Release(v T) {
	if p.reset != nil {
		p.reset(v)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.items <- v:
	default:
		// More releases than acquires; drop the extra value.
	}
}

// Close releases the pool. Further Acquire calls fail with ErrClosed.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.items)
}

// Size returns the pool size.
func (p *Pool[T]) Size() int {
	return p.size
}
