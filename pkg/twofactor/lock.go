package twofactor

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/dmitrymomot/authguard/pkg/logger"
)

var lockFlag = []byte("true")

// LockDuration returns 2^(attempt/MaxAttempt) * LockAttemptDuration.
// The exponent is fractional, so an attempt count between 0 and MaxAttempt
// locks for one to two LockAttemptDuration, and reaching MaxAttempt locks for
// exactly twice the base. The result saturates at the largest Duration.
func (e *Engine) LockDuration(attempt int) time.Duration {
	exp := float64(attempt) / float64(e.cfg.MaxAttempt)
	d := math.Pow(2, exp) * float64(e.cfg.LockAttemptDuration)
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// LockTwoFactorAttempt writes the lock flag for user and returns its TTL.
func (e *Engine) LockTwoFactorAttempt(ctx context.Context, user User) (time.Duration, error) {
	if user.ID == "" {
		return 0, ErrMissingUserID
	}
	ttl := e.LockDuration(user.TwoFactor.Attempt)
	if err := e.store.Set(ctx, e.cacheKey("lock", user.ID), lockFlag, ttl); err != nil {
		return 0, err
	}
	e.log.LogAttrs(ctx, slog.LevelWarn, "two-factor locked",
		logger.UserID(user.ID),
		logger.Attempt(user.TwoFactor.Attempt),
		logger.Duration(ttl),
	)
	return ttl, nil
}

// GetLockTwoFactorAttempt returns the remaining lock time, or 0 when the user
// is not locked.
func (e *Engine) GetLockTwoFactorAttempt(ctx context.Context, user User) (time.Duration, error) {
	if user.ID == "" {
		return 0, ErrMissingUserID
	}
	ttl, err := e.store.TTL(ctx, e.cacheKey("lock", user.ID))
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}
