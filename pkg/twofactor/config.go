package twofactor

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/authguard/pkg/secrets"
	"github.com/dmitrymomot/authguard/pkg/totp"
)

// Config holds the two-factor engine settings.
type Config struct {
	Issuer              string            `env:"TWO_FACTOR_ISSUER" envDefault:"authguard"`
	Digits              int               `env:"TWO_FACTOR_DIGITS" envDefault:"6"`
	Step                uint              `env:"TWO_FACTOR_STEP" envDefault:"30"`  // seconds per code
	Window              uint              `env:"TWO_FACTOR_WINDOW" envDefault:"1"` // steps tolerated on each side
	SecretLength        int               `env:"TWO_FACTOR_SECRET_LENGTH" envDefault:"20"`
	ChallengeTTL        time.Duration     `env:"TWO_FACTOR_CHALLENGE_TTL" envDefault:"5m"`
	CachePrefix         string            `env:"TWO_FACTOR_CACHE_PREFIX" envDefault:"two-factor"`
	BackupCodes         BackupCodesConfig `envPrefix:"TWO_FACTOR_BACKUP_CODES_"`
	EncryptionKey       string            `env:"TWO_FACTOR_ENCRYPTION_KEY,required"` // base64, 32 bytes
	MaxAttempt          int               `env:"TWO_FACTOR_MAX_ATTEMPT" envDefault:"5"`
	LockAttemptDuration time.Duration     `env:"TWO_FACTOR_LOCK_ATTEMPT_DURATION" envDefault:"2m"`
}

// BackupCodesConfig controls the shape of generated backup codes.
type BackupCodesConfig struct {
	Count  int `env:"COUNT" envDefault:"10"`
	Length int `env:"LENGTH" envDefault:"10"`
}

// DefaultConfig returns the defaults declared on Config with the given key.
func DefaultConfig(encryptionKey string) Config {
	return Config{
		Issuer:              "authguard",
		Digits:              totp.DefaultDigits,
		Step:                totp.DefaultPeriod,
		Window:              totp.DefaultSkew,
		SecretLength:        20,
		ChallengeTTL:        5 * time.Minute,
		CachePrefix:         "two-factor",
		BackupCodes:         BackupCodesConfig{Count: 10, Length: 10},
		EncryptionKey:       encryptionKey,
		MaxAttempt:          5,
		LockAttemptDuration: 2 * time.Minute,
	}
}

// Validate is called by config.Load after parsing.
func (c Config) Validate() error {
	switch {
	case c.Issuer == "":
		return errors.Join(ErrInvalidConfig, errors.New("issuer is required"))
	case c.Digits < 1 || c.Digits > totp.MaxDigits:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("digits must be between 1 and %d", totp.MaxDigits))
	case c.Step == 0:
		return errors.Join(ErrInvalidConfig, errors.New("step must be positive"))
	case c.SecretLength < 1:
		return errors.Join(ErrInvalidConfig, errors.New("secret length must be positive"))
	case c.ChallengeTTL <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("challenge ttl must be positive"))
	case c.CachePrefix == "":
		return errors.Join(ErrInvalidConfig, errors.New("cache prefix is required"))
	case c.BackupCodes.Count < 1 || c.BackupCodes.Length < 1:
		return errors.Join(ErrInvalidConfig, errors.New("backup code count and length must be positive"))
	case c.MaxAttempt < 1:
		return errors.Join(ErrInvalidConfig, errors.New("max attempt must be positive"))
	case c.LockAttemptDuration <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("lock attempt duration must be positive"))
	}
	if _, err := secrets.DecodeKey(c.EncryptionKey); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}
