package twofactor_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authguard/pkg/cache"
	"github.com/dmitrymomot/authguard/pkg/notification"
	"github.com/dmitrymomot/authguard/pkg/secrets"
	"github.com/dmitrymomot/authguard/pkg/totp"
	"github.com/dmitrymomot/authguard/pkg/twofactor"
	svc "github.com/dmitrymomot/authguard/svc/twofactor"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	service *svc.Service
	engine  *twofactor.Engine
	repo    *svc.MemoryRepository
	queue   *notification.MemoryQueue
	clock   *fakeClock
}

func newFixture(t *testing.T, mutate ...func(*twofactor.Config)) *fixture {
	t.Helper()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	cfg := twofactor.DefaultConfig(secrets.EncodeKey(key))
	for _, m := range mutate {
		m(&cfg)
	}

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := cache.NewMemoryStore(64, cache.WithClock(clock.Now))
	engine, err := twofactor.New(cfg, store, twofactor.WithClock(clock.Now))
	require.NoError(t, err)

	repo := svc.NewMemoryRepository(
		svc.Account{ID: "u1", Email: "ada@example.com"},
		svc.Account{ID: "u2", Email: "grace@example.com"},
	)
	queue := notification.NewMemoryQueue(32)
	t.Cleanup(queue.Close)

	return &fixture{
		service: svc.NewService(engine, repo, queue, svc.WithQRCodeSize(128)),
		engine:  engine,
		repo:    repo,
		queue:   queue,
		clock:   clock,
	}
}

func (f *fixture) code(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, f.clock.Now(), totp.Options{Digits: 6, Period: 30})
	require.NoError(t, err)
	return code
}

// wrongCode returns a well-formed code outside the accepted window.
func (f *fixture) wrongCode(t *testing.T, secret string) string {
	t.Helper()
	valid := map[string]bool{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, err := totp.GenerateCode(secret, f.clock.Now().Add(d), totp.Options{Digits: 6, Period: 30})
		require.NoError(t, err)
		valid[code] = true
	}
	for _, c := range []string{"000000", "111111", "222222", "333333"} {
		if !valid[c] {
			return c
		}
	}
	t.Fatal("no wrong code available")
	return ""
}

// enable runs setup and enable for userID and returns the secret and backup codes.
func (f *fixture) enable(t *testing.T, userID string) (string, []string) {
	t.Helper()
	ctx := context.Background()
	enrollment, err := f.service.Setup(ctx, userID)
	require.NoError(t, err)
	codes, err := f.service.Enable(ctx, userID, f.code(t, enrollment.Secret))
	require.NoError(t, err)
	return enrollment.Secret, codes
}

func (f *fixture) drain(t *testing.T) []notification.Notification {
	t.Helper()
	var out []notification.Notification
	for f.queue.Len() > 0 {
		n, err := f.queue.Dequeue(context.Background())
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func TestService_SetupAndEnable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	enrollment, err := f.service.Setup(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enrollment.OtpauthURL, "otpauth://totp/"))
	assert.True(t, strings.HasPrefix(enrollment.QRCode, "data:image/png;base64,"))
	assert.NotEmpty(t, enrollment.Secret)

	acc, err := f.repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, acc.Enabled)
	assert.True(t, acc.TwoFactor.Configured())
	assert.NotEqual(t, enrollment.Secret, acc.TwoFactor.Secret, "secret must be stored encrypted")
	assert.Empty(t, f.drain(t))

	codes, err := f.service.Enable(ctx, "u1", f.code(t, enrollment.Secret))
	require.NoError(t, err)
	assert.Len(t, codes, 10)

	acc, err = f.repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acc.Enabled)
	assert.Len(t, acc.TwoFactor.BackupCodes, 10)
	for _, c := range codes {
		assert.NotContains(t, acc.TwoFactor.BackupCodes, c)
	}

	sent := f.drain(t)
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindTwoFactorEnabled, sent[0].Kind)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "u1", sent[0].Value(notification.DataUserID))
}

func TestService_SetupErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Setup(ctx, "missing")
	assert.ErrorIs(t, err, svc.ErrUserNotFound)

	f.enable(t, "u1")
	_, err = f.service.Setup(ctx, "u1")
	assert.ErrorIs(t, err, svc.ErrAlreadyEnabled)

	_, err = f.service.Enable(ctx, "u1", "123456")
	assert.ErrorIs(t, err, svc.ErrAlreadyEnabled)
}

func TestService_EnableErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Enable(ctx, "u1", "123456")
	assert.ErrorIs(t, err, svc.ErrNotSetUp)

	enrollment, err := f.service.Setup(ctx, "u1")
	require.NoError(t, err)

	_, err = f.service.Enable(ctx, "u1", f.wrongCode(t, enrollment.Secret))
	assert.ErrorIs(t, err, svc.ErrInvalidCode)

	acc, err := f.repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, acc.Enabled)
	assert.Equal(t, 1, acc.TwoFactor.Attempt)

	_, err = f.service.Enable(ctx, "u1", f.code(t, enrollment.Secret))
	require.NoError(t, err)

	acc, err = f.repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, acc.TwoFactor.Attempt)
}

func TestService_Disable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with totp code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")
		f.drain(t)

		err := f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.code(t, secret)})
		require.NoError(t, err)

		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, acc.Enabled)
		assert.False(t, acc.TwoFactor.Configured())
		assert.Empty(t, acc.TwoFactor.BackupCodes)

		sent := f.drain(t)
		require.Len(t, sent, 1)
		assert.Equal(t, notification.KindTwoFactorDisabled, sent[0].Kind)
	})

	t.Run("with backup code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, codes := f.enable(t, "u1")

		err := f.service.Disable(ctx, "u1", twofactor.VerifyInput{
			Method:     twofactor.MethodBackupCodes,
			BackupCode: strings.ToLower(codes[3]),
		})
		require.NoError(t, err)

		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, acc.Enabled)
	})

	t.Run("not enabled", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: twofactor.MethodCode, Code: "123456"})
		assert.ErrorIs(t, err, svc.ErrNotEnabled)
	})

	t.Run("wrong code keeps two-factor on", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")

		err := f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.wrongCode(t, secret)})
		assert.ErrorIs(t, err, svc.ErrInvalidCode)

		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, acc.Enabled)
		assert.Equal(t, 1, acc.TwoFactor.Attempt)
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.enable(t, "u1")

		err := f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: "sms", Code: "123456"})
		assert.ErrorIs(t, err, twofactor.ErrUnknownMethod)
	})
}

func TestService_RegenerateBackupCodes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	secret, oldCodes := f.enable(t, "u1")
	f.drain(t)

	newCodes, err := f.service.RegenerateBackupCodes(ctx, "u1", f.code(t, secret))
	require.NoError(t, err)
	assert.Len(t, newCodes, 10)
	assert.NotEqual(t, oldCodes, newCodes)

	sent := f.drain(t)
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindBackupCodesRegenerated, sent[0].Kind)

	ch, err := f.service.BeginChallenge(ctx, "u1", "login")
	require.NoError(t, err)

	_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
		Method:     twofactor.MethodBackupCodes,
		BackupCode: oldCodes[0],
	})
	assert.ErrorIs(t, err, svc.ErrInvalidCode)

	_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
		Method:     twofactor.MethodBackupCodes,
		BackupCode: newCodes[0],
	})
	require.NoError(t, err)
}

func TestService_Challenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requires enabled user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.service.BeginChallenge(ctx, "u1", "login")
		assert.ErrorIs(t, err, svc.ErrNotEnabled)
	})

	t.Run("complete once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")

		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)
		assert.Len(t, ch.Token, twofactor.ChallengeTokenLength)
		assert.Equal(t, 5*time.Minute, ch.ExpiresIn)

		payload, err := f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
			Method: twofactor.MethodCode,
			Code:   f.code(t, secret),
		})
		require.NoError(t, err)
		assert.Equal(t, svc.ChallengePayload{UserID: "u1", Action: "login"}, payload)

		_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
			Method: twofactor.MethodCode,
			Code:   f.code(t, secret),
		})
		assert.ErrorIs(t, err, svc.ErrChallengeNotFound)
	})

	t.Run("failed attempt keeps challenge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")

		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)

		_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
			Method: twofactor.MethodCode,
			Code:   f.wrongCode(t, secret),
		})
		assert.ErrorIs(t, err, svc.ErrInvalidCode)

		_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
			Method: twofactor.MethodCode,
			Code:   f.code(t, secret),
		})
		require.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")

		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)
		f.clock.Advance(ch.ExpiresIn)

		_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
			Method: twofactor.MethodCode,
			Code:   f.code(t, secret),
		})
		assert.ErrorIs(t, err, svc.ErrChallengeNotFound)
	})

	t.Run("backup code is consumed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, codes := f.enable(t, "u1")

		for i := 0; i < 2; i++ {
			ch, err := f.service.BeginChallenge(ctx, "u1", "login")
			require.NoError(t, err)
			_, err = f.service.CompleteChallenge(ctx, ch.Token, twofactor.VerifyInput{
				Method:     twofactor.MethodBackupCodes,
				BackupCode: codes[0],
			})
			if i == 0 {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, svc.ErrInvalidCode)
			}
		}

		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, acc.TwoFactor.BackupCodes, 9)
		assert.True(t, acc.Enabled)
	})
}

// syncedRepository holds every FindUser call until n callers have read the
// account, so concurrent requests all start from the same snapshot.
type syncedRepository struct {
	*svc.MemoryRepository
	arrived sync.WaitGroup
}

func newSyncedRepository(repo *svc.MemoryRepository, n int) *syncedRepository {
	r := &syncedRepository{MemoryRepository: repo}
	r.arrived.Add(n)
	return r
}

func (r *syncedRepository) FindUser(ctx context.Context, id string) (svc.Account, error) {
	acc, err := r.MemoryRepository.FindUser(ctx, id)
	r.arrived.Done()
	r.arrived.Wait()
	return acc, err
}

func completeConcurrently(t *testing.T, service *svc.Service, token string, inputs ...twofactor.VerifyInput) []error {
	t.Helper()
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.CompleteChallenge(context.Background(), token, in)
		}()
	}
	wg.Wait()
	return errs
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}

func TestService_CompleteChallenge_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("same backup code is accepted once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, codes := f.enable(t, "u1")
		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)

		service := svc.NewService(f.engine, newSyncedRepository(f.repo, 2), nil)
		in := twofactor.VerifyInput{Method: twofactor.MethodBackupCodes, BackupCode: codes[0]}
		errs := completeConcurrently(t, service, ch.Token, in, in)

		assert.Equal(t, 1, countNil(errs), "errors: %v", errs)
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, svc.ErrInvalidCode)
			}
		}
		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, acc.TwoFactor.BackupCodes, 9)
	})

	t.Run("different backup codes are both consumed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, codes := f.enable(t, "u1")
		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)

		service := svc.NewService(f.engine, newSyncedRepository(f.repo, 2), nil)
		errs := completeConcurrently(t, service, ch.Token,
			twofactor.VerifyInput{Method: twofactor.MethodBackupCodes, BackupCode: codes[0]},
			twofactor.VerifyInput{Method: twofactor.MethodBackupCodes, BackupCode: codes[1]},
		)

		assert.Equal(t, 1, countNil(errs), "errors: %v", errs)
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, svc.ErrChallengeNotFound)
			}
		}
		acc, err := f.repo.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, acc.TwoFactor.BackupCodes, 8, "no used code may come back")

		for _, code := range codes[:2] {
			next, err := f.service.BeginChallenge(ctx, "u1", "login")
			require.NoError(t, err)
			_, err = f.service.CompleteChallenge(ctx, next.Token, twofactor.VerifyInput{
				Method:     twofactor.MethodBackupCodes,
				BackupCode: code,
			})
			assert.ErrorIs(t, err, svc.ErrInvalidCode)
		}
	})

	t.Run("same totp code completes the challenge once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		secret, _ := f.enable(t, "u1")
		ch, err := f.service.BeginChallenge(ctx, "u1", "login")
		require.NoError(t, err)

		service := svc.NewService(f.engine, newSyncedRepository(f.repo, 2), nil)
		in := twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.code(t, secret)}
		errs := completeConcurrently(t, service, ch.Token, in, in)

		assert.Equal(t, 1, countNil(errs), "errors: %v", errs)
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, svc.ErrChallengeNotFound)
			}
		}
	})
}

func TestService_Lockout(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(c *twofactor.Config) { c.MaxAttempt = 3 })
	ctx := context.Background()

	secret, _ := f.enable(t, "u1")
	f.drain(t)
	wrong := twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.wrongCode(t, secret)}

	for i := 0; i < 2; i++ {
		err := f.service.Disable(ctx, "u1", wrong)
		require.ErrorIs(t, err, svc.ErrInvalidCode)
		require.NotErrorIs(t, err, svc.ErrLocked)
	}

	err := f.service.Disable(ctx, "u1", wrong)
	require.ErrorIs(t, err, svc.ErrInvalidCode)
	require.ErrorIs(t, err, svc.ErrLocked)

	var locked *svc.LockedError
	require.ErrorAs(t, err, &locked)
	// 2^(3/3) * 2m
	assert.Equal(t, 4*time.Minute, locked.RetryAfter)

	sent := f.drain(t)
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindTwoFactorLocked, sent[0].Kind)
	assert.Equal(t, "4m0s", sent[0].Value(notification.DataRetryAfter))

	// The right code is refused while locked.
	err = f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.code(t, secret)})
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 4*time.Minute, locked.RetryAfter)

	remaining, err := f.service.LockStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4*time.Minute, remaining)

	f.clock.Advance(4 * time.Minute)

	remaining, err = f.service.LockStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, remaining)

	err = f.service.Disable(ctx, "u1", twofactor.VerifyInput{Method: twofactor.MethodCode, Code: f.code(t, secret)})
	require.NoError(t, err)

	acc, err := f.repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, acc.TwoFactor.Attempt)
}

func TestService_NilQueue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	service := svc.NewService(f.engine, f.repo, nil)
	ctx := context.Background()

	enrollment, err := service.Setup(ctx, "u2")
	require.NoError(t, err)
	_, err = service.Enable(ctx, "u2", f.code(t, enrollment.Secret))
	require.NoError(t, err)
	assert.Zero(t, f.queue.Len())
}
