package apikey

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/authguard/pkg/apikey"
	"github.com/dmitrymomot/authguard/pkg/logger"
	"github.com/dmitrymomot/authguard/pkg/secrets"
)

// Service issues, authenticates and revokes API clients.
type Service struct {
	cfg    Config
	repo   Repository
	signer apikey.Signer
	now    func() time.Time
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now for timestamp checks and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = logger.OrNop(l).With(logger.Component("apikey"))
	}
}

// NewService validates cfg and returns a Service over repo.
func NewService(cfg Config, repo Repository, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		cfg:  cfg,
		repo: repo,
		now:  time.Now,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue registers a client called name and returns its credentials.
// The secret is not recoverable afterwards.
func (s *Service) Issue(ctx context.Context, name string) (Credentials, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Credentials{}, errors.Join(ErrFailedToIssue, errors.New("name is required"))
	}

	key, err := secrets.RandomString(s.cfg.KeyLength, secrets.AlphabetAlphanumeric)
	if err != nil {
		return Credentials{}, errors.Join(ErrFailedToIssue, err)
	}
	secret, err := secrets.RandomString(s.cfg.SecretLength, secrets.AlphabetAlphanumeric)
	if err != nil {
		return Credentials{}, errors.Join(ErrFailedToIssue, err)
	}
	passphrase, err := secrets.RandomString(s.cfg.PassphraseLength, secrets.AlphabetAlphanumeric)
	if err != nil {
		return Credentials{}, errors.Join(ErrFailedToIssue, err)
	}
	encKey, err := secrets.GenerateKey()
	if err != nil {
		return Credentials{}, errors.Join(ErrFailedToIssue, err)
	}

	creds := Credentials{
		Key:           key,
		Secret:        secret,
		EncryptionKey: secrets.EncodeKey(encKey),
		Passphrase:    passphrase,
	}
	client := Client{
		Key:           key,
		Name:          name,
		Hash:          s.signer.CreateHash(key, secret),
		EncryptionKey: creds.EncryptionKey,
		Passphrase:    passphrase,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return Credentials{}, errors.Join(ErrFailedToIssue, err)
	}

	s.log.InfoContext(ctx, "api client issued", logger.ClientKey(key), slog.String("name", name))
	return creds, nil
}

// Authenticate checks token against the client registered under clientKey.
func (s *Service) Authenticate(ctx context.Context, clientKey, token string) (Client, error) {
	if clientKey == "" || token == "" {
		return Client{}, ErrMissingCredentials
	}

	client, err := s.repo.FindByKey(ctx, clientKey)
	if err != nil {
		return Client{}, err
	}
	if client.Revoked {
		return Client{}, ErrClientRevoked
	}

	encKey, err := secrets.DecodeKey(client.EncryptionKey)
	if err != nil {
		return Client{}, err
	}
	env, err := s.signer.Decrypt(token, encKey, client.Passphrase)
	if err != nil {
		s.log.WarnContext(ctx, "api key token rejected", logger.ClientKey(clientKey), logger.Error(err))
		return Client{}, errors.Join(ErrInvalidToken, err)
	}
	if env.Key != client.Key {
		return Client{}, ErrKeyMismatch
	}

	// Compare against the window bounds; a duration difference would
	// saturate for far-off timestamps.
	now, issued := s.now(), env.Time()
	if issued.Before(now.Add(-s.cfg.Tolerance)) || issued.After(now.Add(s.cfg.Tolerance)) {
		s.log.WarnContext(ctx, "api key token outside time window",
			logger.ClientKey(clientKey),
			slog.Int64("timestamp", env.Timestamp),
		)
		return Client{}, ErrStaleToken
	}

	if !s.signer.ValidateHash(client.Hash, env.Hash) {
		s.log.WarnContext(ctx, "api key secret mismatch", logger.ClientKey(clientKey))
		return Client{}, ErrInvalidSecret
	}
	return client, nil
}

// Revoke disables the client. Tokens it sends afterwards fail with ErrClientRevoked.
func (s *Service) Revoke(ctx context.Context, key string) error {
	if err := s.repo.Revoke(ctx, key); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "api client revoked", logger.ClientKey(key))
	return nil
}
