package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/authguard/pkg/logger"
)

// Dispatcher pulls notifications from a Queue and delivers them with a pool
// of workers.
type Dispatcher struct {
	queue      Queue
	deliverer  Deliverer
	workers    int
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
	running    atomic.Bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkers sets the number of concurrent deliveries.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithRetries sets how many times a failed delivery is retried and the base
// delay, doubled after each failure.
func WithRetries(maxRetries int, delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if maxRetries >= 0 {
			d.maxRetries = maxRetries
		}
		if delay > 0 {
			d.retryDelay = delay
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = logger.OrNop(l)
	}
}

// NewDispatcher creates a dispatcher. Defaults: one worker, three retries
// starting at one second.
func NewDispatcher(q Queue, deliverer Deliverer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:      q,
		deliverer:  deliverer,
		workers:    1,
		maxRetries: 3,
		retryDelay: time.Second,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Serve runs the workers until ctx is done or the queue is closed. Delivery
// attempts in progress finish before Serve returns; pending retries are
// dropped.
func (d *Dispatcher) Serve(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrDispatcherStarted
	}
	defer d.running.Store(false)

	d.log.InfoContext(ctx, "notification dispatcher started", slog.Int("workers", d.workers))

	var wg sync.WaitGroup
	for range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()

	d.log.Info("notification dispatcher stopped")
	return nil
}

// Run returns a function suitable for errgroup.Group.Go.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		return d.Serve(ctx)
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		n, err := d.queue.Dequeue(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrQueueClosed), ctx.Err() != nil:
			return
		default:
			d.log.ErrorContext(ctx, "failed to dequeue notification", logger.Error(err))
			if !sleep(ctx, d.retryDelay) {
				return
			}
			continue
		}

		d.deliver(ctx, n)
	}
}

// deliver retries with exponential backoff and drops the notification after
// the last attempt. An attempt in progress is not cancelled by shutdown, but
// no retry is started once ctx is done.
func (d *Dispatcher) deliver(ctx context.Context, n Notification) {
	deliverCtx := context.WithoutCancel(ctx)
	delay := d.retryDelay
	for attempt := 0; ; attempt++ {
		err := d.deliverer.Deliver(deliverCtx, n)
		if err == nil {
			d.log.LogAttrs(ctx, slog.LevelDebug, "notification delivered",
				logger.NotificationID(n.ID.String()),
				logger.Kind(string(n.Kind)),
			)
			return
		}
		if errors.Is(err, ErrUnknownKind) || errors.Is(err, ErrEmptyRecipient) || attempt >= d.maxRetries {
			d.log.LogAttrs(ctx, slog.LevelError, "notification dropped",
				logger.NotificationID(n.ID.String()),
				logger.Kind(string(n.Kind)),
				logger.RetryCount(attempt),
				logger.Error(err),
			)
			return
		}
		d.log.LogAttrs(ctx, slog.LevelWarn, "notification delivery failed, retrying",
			logger.NotificationID(n.ID.String()),
			logger.Kind(string(n.Kind)),
			logger.RetryCount(attempt),
			logger.Error(err),
		)
		if !sleep(ctx, delay) {
			d.log.LogAttrs(deliverCtx, slog.LevelWarn, "notification dropped on shutdown",
				logger.NotificationID(n.ID.String()),
				logger.Kind(string(n.Kind)),
				logger.RetryCount(attempt),
			)
			return
		}
		delay *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
