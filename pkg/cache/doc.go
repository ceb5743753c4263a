// Package cache defines the key-value contract used for short-lived
// authentication state (two-factor challenges, lockout flags) and ships an
// in-memory implementation of it.
//
// # Store
//
// A Store keeps opaque byte values with an optional time-to-live:
//
//	Get(ctx, key) ([]byte, bool, error)
//	Set(ctx, key, value, ttl) error
//	Delete(ctx, key) error
//	Take(ctx, key) ([]byte, bool, error)
//	TTL(ctx, key) (time.Duration, error)
//
// A missing or expired key is reported as (nil, false, nil) by Get and as 0 by
// TTL; it is never an error. A key stored without expiry reports NoExpiration.
// Take reads and removes a key in one step, so only one concurrent caller
// receives the value. Each key is updated atomically, but there are no
// multi-key transactions.
//
// The Redis-backed implementation lives in pkg/redis.
//
// # MemoryStore
//
// MemoryStore is a thread-safe LRU bounded by capacity. Expired entries are
// dropped lazily on access and preferred for eviction, so there is no
// background sweeper. The clock can be replaced with WithClock, which is how
// tests simulate TTL expiry:
//
//	now := time.Now()
//	store := cache.NewMemoryStore(1024, cache.WithClock(func() time.Time { return now }))
//
// # Typed values
//
// GetJSON and SetJSON marshal arbitrary payloads on top of any Store:
//
//	_ = cache.SetJSON(ctx, store, "challenge:abc", payload, 5*time.Minute)
//	payload, found, err := cache.GetJSON[Payload](ctx, store, "challenge:abc")
package cache
