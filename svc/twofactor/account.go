package twofactor

import (
	"context"

	"github.com/dmitrymomot/authguard/pkg/twofactor"
)

// Account is the part of a user record the service reads and writes.
type Account struct {
	ID        string          `bson:"_id"`
	Email     string          `bson:"email"`
	Enabled   bool            `bson:"two_factor_enabled"`
	TwoFactor twofactor.State `bson:"two_factor"`
}

func (a Account) user() twofactor.User {
	return twofactor.User{ID: a.ID, Email: a.Email, TwoFactor: a.TwoFactor}
}

// Repository persists two-factor state on user records.
type Repository interface {
	// FindUser returns ErrUserNotFound when id does not exist.
	FindUser(ctx context.Context, id string) (Account, error)
	// SaveTwoFactor replaces secret, IV and backup codes and sets the enabled
	// flag. The attempt counter is left as is.
	SaveTwoFactor(ctx context.Context, id string, enabled bool, state twofactor.State) error
	// ConsumeBackupCode atomically removes hash from the stored backup codes.
	// It returns false when hash is not stored, e.g. because a concurrent
	// request already used it.
	ConsumeBackupCode(ctx context.Context, id, hash string) (bool, error)
	// IncrementAttempt atomically adds one failed attempt and returns the new count.
	IncrementAttempt(ctx context.Context, id string) (int, error)
	// ResetAttempt sets the failed attempt counter to zero.
	ResetAttempt(ctx context.Context, id string) error
}

// ChallengePayload is stored with a challenge token.
type ChallengePayload struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

// Enrollment is returned by Setup. Secret and QRCode are shown once.
type Enrollment struct {
	OtpauthURL string
	Secret     string
	QRCode     string // data:image/png;base64 URI of OtpauthURL
}
