package notification

import "errors"

var (
	ErrQueueClosed       = errors.New("notification queue is closed")
	ErrEmptyRecipient    = errors.New("notification recipient is required")
	ErrUnknownKind       = errors.New("unknown notification kind")
	ErrFailedToEnqueue   = errors.New("failed to enqueue notification")
	ErrFailedToDequeue   = errors.New("failed to dequeue notification")
	ErrFailedToDeliver   = errors.New("failed to deliver notification")
	ErrDispatcherStarted = errors.New("dispatcher already running")
)
