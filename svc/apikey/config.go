package apikey

import (
	"errors"
	"time"
)

// Config holds the client authentication settings.
type Config struct {
	Tolerance        time.Duration `env:"API_KEY_TOLERANCE" envDefault:"5m"` // accepted clock drift, both directions
	KeyLength        int           `env:"API_KEY_KEY_LENGTH" envDefault:"24"`
	SecretLength     int           `env:"API_KEY_SECRET_LENGTH" envDefault:"40"`
	PassphraseLength int           `env:"API_KEY_PASSPHRASE_LENGTH" envDefault:"32"`
}

// DefaultConfig returns the defaults declared on Config.
func DefaultConfig() Config {
	return Config{
		Tolerance:        5 * time.Minute,
		KeyLength:        24,
		SecretLength:     40,
		PassphraseLength: 32,
	}
}

// Validate checks that every length and the tolerance are positive.
func (c Config) Validate() error {
	if c.Tolerance <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("tolerance must be positive"))
	}
	if c.KeyLength < 16 || c.SecretLength < 16 || c.PassphraseLength < 16 {
		return errors.Join(ErrInvalidConfig, errors.New("key, secret and passphrase need at least 16 characters"))
	}
	return nil
}
