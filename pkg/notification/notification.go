package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies what happened and selects the delivery template.
type Kind string

const (
	KindTwoFactorEnabled       Kind = "two_factor.enabled"
	KindTwoFactorDisabled      Kind = "two_factor.disabled"
	KindBackupCodesRegenerated Kind = "two_factor.backup_codes_regenerated"
	KindTwoFactorLocked        Kind = "two_factor.locked"
)

// Data keys understood by EmailDeliverer.
const (
	DataUserID     = "user_id"
	DataRetryAfter = "retry_after" // time.Duration string
)

// Notification is a single outbound message.
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	Kind      Kind              `json:"kind"`
	To        string            `json:"to"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// New returns a notification with a fresh ID and the current time.
func New(kind Kind, to string, data map[string]string) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      kind,
		To:        to,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// Value returns Data[key] or "".
func (n Notification) Value(key string) string {
	if n.Data == nil {
		return ""
	}
	return n.Data[key]
}
