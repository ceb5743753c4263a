package apikey

import (
	"context"
	"sync"
)

// MemoryRepository keeps clients in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{clients: make(map[string]Client)}
}

func (r *MemoryRepository) Create(_ context.Context, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.Key]; ok {
		return ErrClientExists
	}
	r.clients[c.Key] = c
	return nil
}

func (r *MemoryRepository) FindByKey(_ context.Context, key string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[key]
	if !ok {
		return Client{}, ErrClientNotFound
	}
	return c, nil
}

func (r *MemoryRepository) Revoke(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[key]
	if !ok {
		return ErrClientNotFound
	}
	c.Revoked = true
	r.clients[key] = c
	return nil
}
