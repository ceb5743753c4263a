package twofactor_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authguard/pkg/twofactor"
	svc "github.com/dmitrymomot/authguard/svc/twofactor"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := svc.NewMemoryRepository(svc.Account{ID: "u1", Email: "ada@example.com"})

	_, err := repo.FindUser(ctx, "nope")
	assert.ErrorIs(t, err, svc.ErrUserNotFound)
	assert.ErrorIs(t, repo.SaveTwoFactor(ctx, "nope", true, twofactor.State{}), svc.ErrUserNotFound)
	_, err = repo.IncrementAttempt(ctx, "nope")
	assert.ErrorIs(t, err, svc.ErrUserNotFound)
	assert.ErrorIs(t, repo.ResetAttempt(ctx, "nope"), svc.ErrUserNotFound)
	_, err = repo.ConsumeBackupCode(ctx, "nope", "a")
	assert.ErrorIs(t, err, svc.ErrUserNotFound)

	n, err := repo.IncrementAttempt(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	state := twofactor.State{Secret: "s", IV: "hex:00", BackupCodes: []string{"a", "b"}, Attempt: 99}
	require.NoError(t, repo.SaveTwoFactor(ctx, "u1", true, state))

	acc, err := repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acc.Enabled)
	assert.Equal(t, "s", acc.TwoFactor.Secret)
	assert.Equal(t, 1, acc.TwoFactor.Attempt, "attempt is not overwritten by SaveTwoFactor")

	// Returned slices are copies.
	acc.TwoFactor.BackupCodes[0] = "mutated"
	state.BackupCodes[1] = "mutated"
	acc, err = repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, acc.TwoFactor.BackupCodes)

	require.NoError(t, repo.ResetAttempt(ctx, "u1"))
	acc, err = repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, acc.TwoFactor.Attempt)
}

func TestMemoryRepository_ConcurrentIncrement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := svc.NewMemoryRepository(svc.Account{ID: "u1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementAttempt(ctx, "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc, err := repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, acc.TwoFactor.Attempt)
}

func TestMemoryRepository_ConsumeBackupCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := svc.NewMemoryRepository(svc.Account{ID: "u1"})
	require.NoError(t, repo.SaveTwoFactor(ctx, "u1", true, twofactor.State{
		Secret: "s", IV: "hex:00", BackupCodes: []string{"a", "b", "c"},
	}))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed = map[string]int{}
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(hash string) {
			defer wg.Done()
			ok, err := repo.ConsumeBackupCode(ctx, "u1", hash)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				consumed[hash]++
				mu.Unlock()
			}
		}([]string{"a", "b"}[i%2])
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"a": 1, "b": 1}, consumed)
	acc, err := repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, acc.TwoFactor.BackupCodes)

	ok, err := repo.ConsumeBackupCode(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
