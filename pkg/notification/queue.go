package notification

import "context"

// Queue moves notifications from producers to the dispatcher.
type Queue interface {
	// Enqueue adds n to the tail of the queue.
	Enqueue(ctx context.Context, n Notification) error
	// Dequeue blocks until a notification is available or ctx is done.
	Dequeue(ctx context.Context) (Notification, error)
}
