package bus

import (
	"context"
	"sync"

	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

const compactMinHead = 64

// Queue is an unbounded, multi-producer, single-consumer FIFO.
// Publish never blocks and never drops.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool
	notify chan struct{}
}

// NewQueue allocates a queue with an initial backing capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue[T]{
		items:  make([]T, 0, capacity),
		notify: make(chan struct{}, 1),
	}
}

// Publish enqueues e. It fails only after Close.
func (q *Queue[T]) Publish(e T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return exception.ErrQueueClosed
	}
	q.items = append(q.items, e)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Close stops the queue from accepting new events. Queued events are still drained.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.wake()
}

// Len returns the number of pending events.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Run consumes events in arrival order until the context is done or the
// queue is closed and empty. handler is never called concurrently.
func (q *Queue[T]) Run(ctx context.Context, handler func(T)) {
	for {
		e, ok, closed := q.pop()
		if ok {
			handler(e)
			continue
		}
		if closed {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		}
	}
}

func (q *Queue[T]) pop() (e T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return e, false, q.closed
	}

	e = q.items[q.head]
	var empty T
	q.items[q.head] = empty
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactMinHead && q.head*2 >= len(q.items):
		// reclaim consumed slots while a backlog stays pending
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return e, true, q.closed
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
