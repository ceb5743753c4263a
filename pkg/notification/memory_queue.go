package notification

import (
	"context"
	"sync"
)

// MemoryQueue is a bounded in-process Queue. Enqueue blocks while the buffer
// is full.
type MemoryQueue struct {
	ch     chan Notification
	done   chan struct{}
	closed sync.Once
}

// NewMemoryQueue returns a queue buffering up to size notifications.
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{
		ch:   make(chan Notification, size),
		done: make(chan struct{}),
	}
}

// Enqueue implements Queue.
func (q *MemoryQueue) Enqueue(ctx context.Context, n Notification) error {
	if n.To == "" {
		return ErrEmptyRecipient
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- n:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue implements Queue. Buffered notifications are still returned after Close.
func (q *MemoryQueue) Dequeue(ctx context.Context) (Notification, error) {
	select {
	case n := <-q.ch:
		return n, nil
	default:
	}
	select {
	case n := <-q.ch:
		return n, nil
	case <-q.done:
		return Notification{}, ErrQueueClosed
	case <-ctx.Done():
		return Notification{}, ctx.Err()
	}
}

// Len returns the number of buffered notifications.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

// Close rejects further Enqueue calls and wakes blocked consumers.
func (q *MemoryQueue) Close() {
	q.closed.Do(func() { close(q.done) })
}
