package twofactor

import "time"

// Method selects the credential checked by VerifyTwoFactor.
type Method string

const (
	MethodCode        Method = "code"
	MethodBackupCodes Method = "backupCodes"
)

// State is the two-factor data attached to a user record.
// Secret and IV are either both set or both empty.
type State struct {
	Secret      string   `json:"secret,omitempty" bson:"secret,omitempty"` // encrypted TOTP seed
	IV          string   `json:"iv,omitempty" bson:"iv,omitempty"`
	BackupCodes []string `json:"backup_codes,omitempty" bson:"backup_codes,omitempty"` // sha256 hex of unused codes
	Attempt     int      `json:"attempt" bson:"attempt"`
}

// Configured reports whether a secret has been provisioned.
func (s State) Configured() bool {
	return s.Secret != "" && s.IV != ""
}

// User is the minimal user view the engine needs.
type User struct {
	ID        string
	Email     string
	TwoFactor State
}

// BackupCodes is a freshly generated batch. Codes are shown to the user once;
// only Hashes are persisted.
type BackupCodes struct {
	Codes  []string
	Hashes []string
}

// Challenge identifies a pending second-factor step.
type Challenge struct {
	Token     string        `json:"token"`
	ExpiresIn time.Duration `json:"expires_in"`
}

// VerifyInput carries the credential submitted by the user.
type VerifyInput struct {
	Method     Method `json:"method"`
	Code       string `json:"code,omitempty"`
	BackupCode string `json:"backup_code,omitempty"`
}

// VerifyResult reports the outcome of VerifyTwoFactor. NewBackupCodes and
// UsedBackupCode are set only after a successful backup code check.
// UsedBackupCode is the stored hash that matched; callers persisting state
// concurrently should remove that hash atomically rather than write
// NewBackupCodes back.
type VerifyResult struct {
	IsValid        bool
	Method         Method
	NewBackupCodes []string
	UsedBackupCode string
}

// Setup is the material produced when enrolling a user.
type Setup struct {
	OtpauthURL      string
	Secret          string // plaintext, shown once
	EncryptedSecret string
	IV              string
}
