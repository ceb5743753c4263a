package twofactor_test

import (
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authguard/pkg/cache"
	"github.com/dmitrymomot/authguard/pkg/secrets"
	"github.com/dmitrymomot/authguard/pkg/totp"
	"github.com/dmitrymomot/authguard/pkg/twofactor"
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

func testKey(t *testing.T) string {
	t.Helper()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	return secrets.EncodeKey(key)
}

func newEngine(t *testing.T, mutate ...func(*twofactor.Config)) (*twofactor.Engine, *fakeClock, *cache.MemoryStore) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
	store := cache.NewMemoryStore(128, cache.WithClock(clock.Now))

	cfg := twofactor.DefaultConfig(testKey(t))
	for _, m := range mutate {
		m(&cfg)
	}
	engine, err := twofactor.New(cfg, store, twofactor.WithClock(clock.Now))
	require.NoError(t, err)
	return engine, clock, store
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore(8)
	key := testKey(t)

	tests := []struct {
		name   string
		mutate func(*twofactor.Config)
	}{
		{"missing key", func(c *twofactor.Config) { c.EncryptionKey = "" }},
		{"short key", func(c *twofactor.Config) { c.EncryptionKey = "c2hvcnQ=" }},
		{"too many digits", func(c *twofactor.Config) { c.Digits = 9 }},
		{"zero digits", func(c *twofactor.Config) { c.Digits = 0 }},
		{"zero step", func(c *twofactor.Config) { c.Step = 0 }},
		{"zero max attempt", func(c *twofactor.Config) { c.MaxAttempt = 0 }},
		{"empty prefix", func(c *twofactor.Config) { c.CachePrefix = "" }},
		{"no backup codes", func(c *twofactor.Config) { c.BackupCodes.Count = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twofactor.DefaultConfig(key)
			tt.mutate(&cfg)
			_, err := twofactor.New(cfg, store)
			assert.ErrorIs(t, err, twofactor.ErrInvalidConfig)
		})
	}

	_, err := twofactor.New(twofactor.DefaultConfig(key), nil)
	assert.ErrorIs(t, err, twofactor.ErrInvalidConfig)
}

func TestEngine_GenerateSecret(t *testing.T) {
	t.Parallel()
	engine, _, _ := newEngine(t)

	s1, err := engine.GenerateSecret()
	require.NoError(t, err)
	s2, err := engine.GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, s1, 32) // 20 bytes, base32 without padding
	assert.Regexp(t, `^[A-Z2-7]+$`, s1)
	assert.NotEqual(t, s1, s2)
}

func TestEngine_CreateKeyURI(t *testing.T) {
	t.Parallel()
	engine, _, _ := newEngine(t)

	secret, err := engine.GenerateSecret()
	require.NoError(t, err)

	uri, err := engine.CreateKeyURI("jane@example.com", secret)
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "/authguard:jane@example.com", u.Path)
	assert.Equal(t, secret, u.Query().Get("secret"))
	assert.Equal(t, "authguard", u.Query().Get("issuer"))
	assert.Equal(t, "6", u.Query().Get("digits"))
	assert.Equal(t, "30", u.Query().Get("period"))

	_, err = engine.CreateKeyURI("", secret)
	assert.ErrorIs(t, err, twofactor.ErrFailedToBuildKeyURI)
}

func TestEngine_VerifyCode(t *testing.T) {
	t.Parallel()
	engine, clock, _ := newEngine(t)

	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	opts := totp.Options{Digits: 6, Period: 30}

	current, err := totp.GenerateCode(secret, clock.Now(), opts)
	require.NoError(t, err)
	previous, err := totp.GenerateCode(secret, clock.Now().Add(-30*time.Second), opts)
	require.NoError(t, err)
	stale, err := totp.GenerateCode(secret, clock.Now().Add(-90*time.Second), opts)
	require.NoError(t, err)

	assert.True(t, engine.VerifyCode(secret, current))
	assert.True(t, engine.VerifyCode(secret, previous), "one step back is inside the window")
	if stale != current && stale != previous {
		assert.False(t, engine.VerifyCode(secret, stale), "three steps back is outside the window")
	}
	assert.False(t, engine.VerifyCode(secret, "12a456"))
	assert.False(t, engine.VerifyCode("not base32!", current))
}

func TestEngine_VerifyCode_ZeroWindow(t *testing.T) {
	t.Parallel()
	engine, clock, _ := newEngine(t, func(c *twofactor.Config) { c.Window = 0 })

	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	opts := totp.Options{Digits: 6, Period: 30}

	current, err := totp.GenerateCode(secret, clock.Now(), opts)
	require.NoError(t, err)
	previous, err := totp.GenerateCode(secret, clock.Now().Add(-30*time.Second), opts)
	require.NoError(t, err)

	assert.True(t, engine.VerifyCode(secret, current))
	if previous != current {
		assert.False(t, engine.VerifyCode(secret, previous))
	}
}

func TestEngine_EncryptDecryptSecret(t *testing.T) {
	t.Parallel()
	engine, _, _ := newEngine(t)

	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	iv, err := engine.GenerateEncryptionIV()
	require.NoError(t, err)
	assert.Regexp(t, `^hex:[0-9a-f]{32}$`, iv)

	ct, err := engine.EncryptSecret(secret, iv)
	require.NoError(t, err)
	assert.NotContains(t, ct, secret)

	pt, err := engine.DecryptSecret(ct, iv)
	require.NoError(t, err)
	assert.Equal(t, secret, pt)

	otherIV, err := engine.GenerateEncryptionIV()
	require.NoError(t, err)
	_, err = engine.DecryptSecret(ct, otherIV)
	require.ErrorIs(t, err, twofactor.ErrFailedToDecryptSecret)
	assert.NotContains(t, err.Error(), secret)

	other, _, _ := newEngine(t)
	_, err = other.DecryptSecret(ct, iv)
	assert.ErrorIs(t, err, twofactor.ErrFailedToDecryptSecret)

	_, err = engine.EncryptSecret(secret, "b64:AAAA")
	assert.ErrorIs(t, err, secrets.ErrUnsupportedIVFormat)
}

func TestEngine_ValidateFormats(t *testing.T) {
	t.Parallel()
	engine, _, _ := newEngine(t)

	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{`\d\d\d\d\d\d`, false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.ValidateCode(tt.code), "code %q", tt.code)
	}

	backup := []struct {
		code string
		want bool
	}{
		{"ABCDE12345", true},
		{"abcde12345", false},
		{"ABCDE1234", false},
		{"ABCDE-2345", false},
	}
	for _, tt := range backup {
		assert.Equal(t, tt.want, engine.ValidateBackupCode(tt.code), "backup code %q", tt.code)
	}
}

func TestEngine_SetupTwoFactor(t *testing.T) {
	t.Parallel()
	engine, _, store := newEngine(t)

	setup, err := engine.SetupTwoFactor("jane@example.com")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(setup.OtpauthURL, "otpauth://totp/"))
	assert.Contains(t, setup.OtpauthURL, "secret="+setup.Secret)

	pt, err := engine.DecryptSecret(setup.EncryptedSecret, setup.IV)
	require.NoError(t, err)
	assert.Equal(t, setup.Secret, pt)
	assert.Zero(t, store.Len(), "setup must not touch the cache")
}

func TestEngine_CheckAttempt(t *testing.T) {
	t.Parallel()
	engine, _, _ := newEngine(t)

	assert.False(t, engine.CheckAttempt(twofactor.User{TwoFactor: twofactor.State{Attempt: 4}}))
	assert.True(t, engine.CheckAttempt(twofactor.User{TwoFactor: twofactor.State{Attempt: 5}}))
	assert.True(t, engine.CheckAttempt(twofactor.User{TwoFactor: twofactor.State{Attempt: 9}}))
}
