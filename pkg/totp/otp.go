package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultDigits = 6  // Standard 6-digit TOTP codes
	DefaultPeriod = 30 // 30-second validity window (RFC 6238 standard)
	DefaultSkew   = 1  // Previous and next window accepted
	MaxDigits     = 8  // Longest code length authenticator apps support
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// Options controls code shape and tolerance. Zero values use the defaults.
type Options struct {
	Digits int  // Number of digits in a code
	Period uint // Seconds per time step
	Skew   uint // Steps accepted on either side of the current one
}

func (o Options) withDefaults() Options {
	if o.Digits == 0 {
		o.Digits = DefaultDigits
	}
	if o.Period == 0 {
		o.Period = DefaultPeriod
	}
	return o
}

func (o Options) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.Period,
		Skew:      o.Skew,
		Digits:    otp.Digits(o.Digits),
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Params contains the parameters for key URI generation.
type Params struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Options
}

// Validate ensures all required parameters are present and valid.
func (p Params) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	if p.Digits < 0 || p.Digits > MaxDigits {
		return ErrInvalidDigits
	}
	return nil
}

// GenerateSecret returns a Base32 (unpadded) seed built from size random bytes.
func GenerateSecret(size int) (string, error) {
	if size < 1 {
		return "", ErrInvalidSecretLength
	}
	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return b32NoPadding.EncodeToString(secret), nil
}

// KeyURI builds an otpauth:// URI following the Key Uri Format used by
// Google Authenticator, 1Password and compatible apps.
func KeyURI(p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	raw, err := decodeSecret(p.Secret)
	if err != nil {
		return "", errors.Join(ErrFailedToBuildKeyURI, err)
	}
	opts := p.withDefaults()

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.Issuer,
		AccountName: p.AccountName,
		Period:      opts.Period,
		Secret:      raw,
		Digits:      otp.Digits(opts.Digits),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", errors.Join(ErrFailedToBuildKeyURI, err)
	}
	return key.URL(), nil
}

// Validate reports whether code matches secret at t within ±Skew periods.
func Validate(secret, code string, t time.Time, opts Options) bool {
	opts = opts.withDefaults()
	if !ValidCodeFormat(code, opts.Digits) {
		return false
	}
	secret = normalizeSecret(secret)
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, t.UTC(), opts.validateOpts())
	return err == nil && ok
}

// GenerateCode returns the code valid for secret in the period containing t.
func GenerateCode(secret string, t time.Time, opts Options) (string, error) {
	opts = opts.withDefaults()
	secret = normalizeSecret(secret)
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return "", ErrInvalidSecret
	}
	code, err := totp.GenerateCodeCustom(secret, t.UTC(), opts.validateOpts())
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

// CodeFormat returns the anchored pattern for a code of the given length.
func CodeFormat(digits int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, digits))
}

// ValidCodeFormat reports whether code consists of exactly digits ASCII digits.
func ValidCodeFormat(code string, digits int) bool {
	if digits < 1 || len(code) != digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func normalizeSecret(secret string) string {
	return strings.TrimSpace(strings.ToUpper(secret))
}

func decodeSecret(secret string) ([]byte, error) {
	raw, err := b32NoPadding.DecodeString(strings.TrimRight(normalizeSecret(secret), "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return raw, nil
}
