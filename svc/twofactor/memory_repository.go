package twofactor

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/authguard/pkg/twofactor"
)

// MemoryRepository is a Repository kept in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryRepository returns a repository holding accounts.
func NewMemoryRepository(accounts ...Account) *MemoryRepository {
	r := &MemoryRepository{accounts: make(map[string]Account, len(accounts))}
	for _, a := range accounts {
		r.accounts[a.ID] = clone(a)
	}
	return r
}

// Put inserts or replaces an account.
func (r *MemoryRepository) Put(a Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = clone(a)
}

// FindUser implements Repository.
func (r *MemoryRepository) FindUser(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrUserNotFound
	}
	return clone(a), nil
}

// SaveTwoFactor implements Repository.
func (r *MemoryRepository) SaveTwoFactor(_ context.Context, id string, enabled bool, state twofactor.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return ErrUserNotFound
	}
	a.Enabled = enabled
	a.TwoFactor.Secret = state.Secret
	a.TwoFactor.IV = state.IV
	a.TwoFactor.BackupCodes = slices.Clone(state.BackupCodes)
	r.accounts[id] = a
	return nil
}

// ConsumeBackupCode implements Repository.
func (r *MemoryRepository) ConsumeBackupCode(_ context.Context, id, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return false, ErrUserNotFound
	}
	idx := slices.Index(a.TwoFactor.BackupCodes, hash)
	if idx < 0 {
		return false, nil
	}
	a.TwoFactor.BackupCodes = slices.Delete(slices.Clone(a.TwoFactor.BackupCodes), idx, idx+1)
	r.accounts[id] = a
	return true, nil
}

// IncrementAttempt implements Repository.
func (r *MemoryRepository) IncrementAttempt(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return 0, ErrUserNotFound
	}
	a.TwoFactor.Attempt++
	r.accounts[id] = a
	return a.TwoFactor.Attempt, nil
}

// ResetAttempt implements Repository.
func (r *MemoryRepository) ResetAttempt(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return ErrUserNotFound
	}
	a.TwoFactor.Attempt = 0
	r.accounts[id] = a
	return nil
}

func clone(a Account) Account {
	a.TwoFactor.BackupCodes = slices.Clone(a.TwoFactor.BackupCodes)
	return a
}
