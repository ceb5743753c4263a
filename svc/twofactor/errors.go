package twofactor

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyEnabled    = errors.New("two-factor authentication is already enabled")
	ErrNotEnabled        = errors.New("two-factor authentication is not enabled")
	ErrNotSetUp          = errors.New("two-factor authentication has not been set up")
	ErrInvalidCode       = errors.New("invalid two-factor code")
	ErrChallengeNotFound = errors.New("challenge not found or expired")
	ErrLocked            = errors.New("two-factor verification is locked")
)

// LockedError is returned while a user is locked out. It matches ErrLocked.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrLocked, e.RetryAfter.Round(time.Second))
}

// Is reports whether target is ErrLocked.
func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}
