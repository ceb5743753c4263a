package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPollTimeout = 5 * time.Second

// RedisQueue is a Queue backed by a Redis list.
type RedisQueue struct {
	client      redis.UniversalClient
	key         string
	pollTimeout time.Duration
}

// RedisQueueOption configures a RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithPollTimeout bounds each BLPOP call so Dequeue notices cancellation.
func WithPollTimeout(d time.Duration) RedisQueueOption {
	return func(q *RedisQueue) {
		if d > 0 {
			q.pollTimeout = d
		}
	}
}

// NewRedisQueue returns a queue on the list stored at key.
func NewRedisQueue(client redis.UniversalClient, key string, opts ...RedisQueueOption) *RedisQueue {
	q := &RedisQueue{client: client, key: key, pollTimeout: defaultPollTimeout}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue implements Queue with RPUSH.
func (q *RedisQueue) Enqueue(ctx context.Context, n Notification) error {
	if n.To == "" {
		return ErrEmptyRecipient
	}
	data, err := json.Marshal(n)
	if err != nil {
		return errors.Join(ErrFailedToEnqueue, err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return errors.Join(ErrFailedToEnqueue, err)
	}
	return nil
}

// Dequeue implements Queue with BLPOP, polling until an item arrives or ctx is done.
func (q *RedisQueue) Dequeue(ctx context.Context) (Notification, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Notification{}, err
		}

		res, err := q.client.BLPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Notification{}, ctx.Err()
			}
			return Notification{}, errors.Join(ErrFailedToDequeue, err)
		}
		// BLPOP replies with [key, value].
		if len(res) != 2 {
			return Notification{}, errors.Join(ErrFailedToDequeue, errors.New("unexpected BLPOP reply"))
		}

		var n Notification
		if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
			return Notification{}, errors.Join(ErrFailedToDequeue, err)
		}
		return n, nil
	}
}

// Len returns the list length.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
