package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authguard/pkg/notification"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []notification.Notification
	failures  map[string]int // recipient -> remaining failures
	calls     map[string]int
}

func newRecordingDeliverer() *recordingDeliverer {
	return &recordingDeliverer{failures: map[string]int{}, calls: map[string]int{}}
}

func (r *recordingDeliverer) Deliver(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[n.To]++
	if r.failures[n.To] > 0 {
		r.failures[n.To]--
		return errors.New("smtp unavailable")
	}
	r.delivered = append(r.delivered, n)
	return nil
}

func (r *recordingDeliverer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func (r *recordingDeliverer) callsFor(to string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[to]
}

func TestDispatcher_DeliversAll(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := notification.NewMemoryQueue(16)
	rec := newRecordingDeliverer()
	d := notification.NewDispatcher(q, rec, notification.WithWorkers(3))

	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()

	for i := range 10 {
		to := string(rune('a'+i)) + "@example.com"
		require.NoError(t, q.Enqueue(ctx, notification.New(notification.KindTwoFactorEnabled, to, nil)))
	}

	assert.Eventually(t, func() bool { return rec.count() == 10 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_Retries(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := notification.NewMemoryQueue(4)
	rec := newRecordingDeliverer()
	rec.failures["flaky@example.com"] = 2
	rec.failures["dead@example.com"] = 100

	d := notification.NewDispatcher(q, rec, notification.WithRetries(2, time.Millisecond))
	go func() { _ = d.Serve(ctx) }()

	require.NoError(t, q.Enqueue(ctx, notification.New(notification.KindTwoFactorLocked, "flaky@example.com", nil)))
	require.NoError(t, q.Enqueue(ctx, notification.New(notification.KindTwoFactorLocked, "dead@example.com", nil)))

	assert.Eventually(t, func() bool {
		return rec.callsFor("flaky@example.com") == 3 && rec.callsFor("dead@example.com") == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestDispatcher_ShutdownSkipsPendingRetries(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := notification.NewMemoryQueue(1)
	rec := newRecordingDeliverer()
	rec.failures["dead@example.com"] = 100
	d := notification.NewDispatcher(q, rec, notification.WithRetries(5, time.Minute))

	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()

	require.NoError(t, q.Enqueue(ctx, notification.New(notification.KindTwoFactorLocked, "dead@example.com", nil)))
	assert.Eventually(t, func() bool { return rec.callsFor("dead@example.com") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher waited for the retry delay after shutdown")
	}
	assert.Equal(t, 1, rec.callsFor("dead@example.com"))
	assert.Zero(t, rec.count())
}

func TestDispatcher_StopsOnClosedQueue(t *testing.T) {
	t.Parallel()

	q := notification.NewMemoryQueue(1)
	d := notification.NewDispatcher(q, newRecordingDeliverer(), notification.WithWorkers(2))
	q.Close()

	run := d.Run(context.Background())
	assert.NoError(t, run())
}

func TestDispatcher_SingleServe(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := notification.NewMemoryQueue(1)
	d := notification.NewDispatcher(q, newRecordingDeliverer())

	started := make(chan struct{})
	go func() {
		close(started)
		_ = d.Serve(ctx)
	}()
	<-started

	assert.Eventually(t, func() bool {
		return errors.Is(d.Serve(ctx), notification.ErrDispatcherStarted)
	}, time.Second, 5*time.Millisecond)
}
