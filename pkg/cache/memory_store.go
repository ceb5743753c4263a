package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is a thread-safe, capacity-bounded LRU Store.
// When full, an expired entry is evicted if one exists, otherwise the least
// recently used one.
type MemoryStore struct {
	capacity int
	items    map[string]*list.Element
	eviction *list.List
	mu       sync.Mutex
	now      func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now. Nil is ignored.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a store holding at most capacity keys.
// The capacity must be positive, otherwise it panics.
func NewMemoryStore(capacity int, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		panic("memory store capacity must be positive")
	}
	s := &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Store and marks the key as recently used.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.lookup(key)
	if entry == nil {
		return nil, false, nil
	}
	s.eviction.MoveToFront(s.items[key])

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = stored
		entry.expiresAt = expiresAt
		s.eviction.MoveToFront(elem)
		return nil
	}

	s.items[key] = s.eviction.PushFront(&memoryEntry{key: key, value: stored, expiresAt: expiresAt})
	if s.eviction.Len() > s.capacity {
		s.evictOne()
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
	}
	return nil
}

// Take implements Store.
func (s *MemoryStore) Take(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.lookup(key)
	if entry == nil {
		return nil, false, nil
	}
	s.removeElement(s.items[key])
	return entry.value, true, nil
}

// TTL implements Store.
func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.lookup(key)
	if entry == nil {
		return 0, nil
	}
	if entry.expiresAt.IsZero() {
		return NoExpiration, nil
	}
	return entry.expiresAt.Sub(s.now()), nil
}

// Len returns the number of stored keys, expired ones included until they are touched.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eviction.Len()
}

// Clear removes every key.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*list.Element)
	s.eviction.Init()
}

// lookup returns the live entry for key, dropping it if it has expired.
// Must be called with lock held.
func (s *MemoryStore) lookup(key string) *memoryEntry {
	elem, ok := s.items[key]
	if !ok {
		return nil
	}
	entry := elem.Value.(*memoryEntry)
	if entry.expired(s.now()) {
		s.removeElement(elem)
		return nil
	}
	return entry
}

// Must be called with lock held.
func (s *MemoryStore) evictOne() {
	now := s.now()
	for elem := s.eviction.Back(); elem != nil; elem = elem.Prev() {
		if elem.Value.(*memoryEntry).expired(now) {
			s.removeElement(elem)
			return
		}
	}
	if elem := s.eviction.Back(); elem != nil {
		s.removeElement(elem)
	}
}

// Must be called with lock held.
func (s *MemoryStore) removeElement(elem *list.Element) {
	s.eviction.Remove(elem)
	delete(s.items, elem.Value.(*memoryEntry).key)
}
