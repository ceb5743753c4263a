package twofactor

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/authguard/pkg/cache"
	"github.com/dmitrymomot/authguard/pkg/logger"
	"github.com/dmitrymomot/authguard/pkg/secrets"
	"github.com/dmitrymomot/authguard/pkg/totp"
)

// ChallengeTokenLength is the number of characters in a challenge token.
const ChallengeTokenLength = 48

// Engine performs two-factor operations. It is safe for concurrent use.
type Engine struct {
	cfg   Config
	key   []byte
	store cache.Store
	now   func() time.Time
	log   *slog.Logger

	codeFormat       *regexp.Regexp
	backupCodeFormat *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for TOTP checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger. Nil falls back to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = logger.OrNop(l)
	}
}

// New validates cfg and returns an Engine backed by store.
func New(cfg Config, store cache.Store, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("cache store is required"))
	}
	key, err := secrets.DecodeKey(cfg.EncryptionKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:              cfg,
		key:              key,
		store:            store,
		now:              time.Now,
		log:              logger.Nop(),
		codeFormat:       totp.CodeFormat(cfg.Digits),
		backupCodeFormat: regexp.MustCompile(fmt.Sprintf(`^[A-Z0-9]{%d}$`, cfg.BackupCodes.Length)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) totpOptions() totp.Options {
	return totp.Options{
		Digits: e.cfg.Digits,
		Period: e.cfg.Step,
		Skew:   e.cfg.Window,
	}
}

// GenerateSecret returns a new base32 TOTP seed.
func (e *Engine) GenerateSecret() (string, error) {
	secret, err := totp.GenerateSecret(e.cfg.SecretLength)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return secret, nil
}

// CreateKeyURI builds the otpauth:// provisioning URI for email.
func (e *Engine) CreateKeyURI(email, secret string) (string, error) {
	uri, err := totp.KeyURI(totp.Params{
		Secret:      secret,
		AccountName: email,
		Issuer:      e.cfg.Issuer,
		Options:     e.totpOptions(),
	})
	if err != nil {
		return "", errors.Join(ErrFailedToBuildKeyURI, err)
	}
	return uri, nil
}

// VerifyCode reports whether code is valid for the plaintext secret at the
// current time. Malformed codes and secrets yield false.
func (e *Engine) VerifyCode(secret, code string) bool {
	return totp.Validate(secret, code, e.now(), e.totpOptions())
}

// GenerateEncryptionIV returns a tagged random IV, e.g. "hex:<32 hex chars>".
func (e *Engine) GenerateEncryptionIV() (string, error) {
	return secrets.NewIVTag()
}

// EncryptSecret encrypts a plaintext seed for storage.
func (e *Engine) EncryptSecret(secret, ivTag string) (string, error) {
	out, err := secrets.EncryptWithIV(e.key, ivTag, secret)
	if err != nil {
		return "", errors.Join(ErrFailedToEncryptSecret, err)
	}
	return out, nil
}

// DecryptSecret reverses EncryptSecret. A wrong key or IV fails authentication.
func (e *Engine) DecryptSecret(cipherText, ivTag string) (string, error) {
	out, err := secrets.DecryptWithIV(e.key, ivTag, cipherText)
	if err != nil {
		return "", errors.Join(ErrFailedToDecryptSecret, err)
	}
	return out, nil
}

// ValidateCode reports whether code has the shape of a TOTP code.
func (e *Engine) ValidateCode(code string) bool {
	return e.codeFormat.MatchString(code)
}

// ValidateBackupCode reports whether code has the shape of a backup code.
func (e *Engine) ValidateBackupCode(code string) bool {
	return e.backupCodeFormat.MatchString(code)
}

// SetupTwoFactor generates the enrolment material for email.
// Nothing is persisted or cached.
func (e *Engine) SetupTwoFactor(email string) (Setup, error) {
	secret, err := e.GenerateSecret()
	if err != nil {
		return Setup{}, err
	}
	iv, err := e.GenerateEncryptionIV()
	if err != nil {
		return Setup{}, err
	}
	encrypted, err := e.EncryptSecret(secret, iv)
	if err != nil {
		return Setup{}, err
	}
	uri, err := e.CreateKeyURI(email, secret)
	if err != nil {
		return Setup{}, err
	}

	return Setup{
		OtpauthURL:      uri,
		Secret:          secret,
		EncryptedSecret: encrypted,
		IV:              iv,
	}, nil
}

// VerifyTwoFactor checks the submitted credential against state.
//
// Missing secret or IV, blank input and an empty backup code list all yield
// an invalid result without error. A secret that fails to decrypt is returned
// as an error. On a backup code match the result carries a new slice without
// the consumed hash; state.BackupCodes is left untouched.
func (e *Engine) VerifyTwoFactor(state State, in VerifyInput) (VerifyResult, error) {
	res := VerifyResult{Method: in.Method}
	if !state.Configured() {
		return res, nil
	}

	switch in.Method {
	case MethodCode:
		code := strings.TrimSpace(in.Code)
		if code == "" {
			return res, nil
		}
		secret, err := e.DecryptSecret(state.Secret, state.IV)
		if err != nil {
			return res, err
		}
		res.IsValid = e.VerifyCode(secret, code)
		return res, nil

	case MethodBackupCodes:
		code := strings.ToUpper(strings.TrimSpace(in.BackupCode))
		if code == "" || len(state.BackupCodes) == 0 {
			return res, nil
		}
		ok, idx := e.VerifyBackupCode(state.BackupCodes, code)
		if !ok {
			return res, nil
		}
		res.IsValid = true
		res.UsedBackupCode = state.BackupCodes[idx]
		res.NewBackupCodes = removeAt(state.BackupCodes, idx)
		return res, nil

	default:
		return res, errors.Join(ErrUnknownMethod, fmt.Errorf("method %q", in.Method))
	}
}

// CheckAttempt reports whether the user reached the failed attempt limit.
func (e *Engine) CheckAttempt(user User) bool {
	return user.TwoFactor.Attempt >= e.cfg.MaxAttempt
}

func (e *Engine) cacheKey(parts ...string) string {
	return e.cfg.CachePrefix + ":" + strings.Join(parts, ":")
}

func removeAt(s []string, idx int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:idx]...)
	return append(out, s[idx+1:]...)
}
