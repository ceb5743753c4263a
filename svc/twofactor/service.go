package twofactor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authguard/pkg/logger"
	"github.com/dmitrymomot/authguard/pkg/notification"
	"github.com/dmitrymomot/authguard/pkg/qrcode"
	"github.com/dmitrymomot/authguard/pkg/twofactor"
)

// Service runs the two-factor lifecycle for user accounts.
type Service struct {
	engine *twofactor.Engine
	repo   Repository
	queue  notification.Queue
	log    *slog.Logger
	qrSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = logger.OrNop(l).With(logger.Component("twofactor"))
	}
}

// WithQRCodeSize sets the enrolment QR code size in pixels.
func WithQRCodeSize(px int) ServiceOption {
	return func(s *Service) {
		if px > 0 {
			s.qrSize = px
		}
	}
}

// NewService creates a Service. A nil queue disables notifications.
func NewService(engine *twofactor.Engine, repo Repository, queue notification.Queue, opts ...ServiceOption) *Service {
	s := &Service{
		engine: engine,
		repo:   repo,
		queue:  queue,
		log:    logger.Nop(),
		qrSize: qrcode.DefaultSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup generates and stores a pending secret for userID. Two-factor stays
// disabled until Enable confirms a code. Calling Setup again replaces the
// pending secret.
func (s *Service) Setup(ctx context.Context, userID string) (Enrollment, error) {
	acc, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}
	if acc.Enabled {
		return Enrollment{}, ErrAlreadyEnabled
	}

	setup, err := s.engine.SetupTwoFactor(acc.Email)
	if err != nil {
		return Enrollment{}, err
	}
	qr, err := qrcode.DataURI(setup.OtpauthURL, qrcode.WithSize(s.qrSize))
	if err != nil {
		return Enrollment{}, err
	}

	state := twofactor.State{Secret: setup.EncryptedSecret, IV: setup.IV}
	if err := s.repo.SaveTwoFactor(ctx, acc.ID, false, state); err != nil {
		return Enrollment{}, err
	}
	if err := s.repo.ResetAttempt(ctx, acc.ID); err != nil {
		return Enrollment{}, err
	}

	s.log.InfoContext(ctx, "two-factor setup started", logger.UserID(acc.ID))
	return Enrollment{OtpauthURL: setup.OtpauthURL, Secret: setup.Secret, QRCode: qr}, nil
}

// Enable confirms the pending secret with a TOTP code and activates
// two-factor. It returns the plaintext backup codes, which are not stored.
func (s *Service) Enable(ctx context.Context, userID, code string) ([]string, error) {
	acc, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Enabled {
		return nil, ErrAlreadyEnabled
	}
	if !acc.TwoFactor.Configured() {
		return nil, ErrNotSetUp
	}
	if err := s.verify(ctx, acc, twofactor.VerifyInput{Method: twofactor.MethodCode, Code: code}); err != nil {
		return nil, err
	}

	codes, err := s.engine.GenerateBackupCodes()
	if err != nil {
		return nil, err
	}
	state := acc.TwoFactor
	state.BackupCodes = codes.Hashes
	if err := s.repo.SaveTwoFactor(ctx, acc.ID, true, state); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "two-factor enabled", logger.UserID(acc.ID))
	s.notify(ctx, notification.KindTwoFactorEnabled, acc, nil)
	return codes.Codes, nil
}

// Disable turns two-factor off after checking a code or backup code and
// wipes the stored secret and backup codes.
func (s *Service) Disable(ctx context.Context, userID string, in twofactor.VerifyInput) error {
	acc, err := s.enabledAccount(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.verify(ctx, acc, in); err != nil {
		return err
	}
	if err := s.repo.SaveTwoFactor(ctx, acc.ID, false, twofactor.State{}); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "two-factor disabled", logger.UserID(acc.ID), logger.Method(string(in.Method)))
	s.notify(ctx, notification.KindTwoFactorDisabled, acc, nil)
	return nil
}

// RegenerateBackupCodes replaces all backup codes after checking a TOTP code.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID, code string) ([]string, error) {
	acc, err := s.enabledAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, acc, twofactor.VerifyInput{Method: twofactor.MethodCode, Code: code}); err != nil {
		return nil, err
	}

	codes, err := s.engine.GenerateBackupCodes()
	if err != nil {
		return nil, err
	}
	state := acc.TwoFactor
	state.BackupCodes = codes.Hashes
	if err := s.repo.SaveTwoFactor(ctx, acc.ID, true, state); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "backup codes regenerated", logger.UserID(acc.ID))
	s.notify(ctx, notification.KindBackupCodesRegenerated, acc, nil)
	return codes.Codes, nil
}

// BeginChallenge opens a challenge for action, e.g. "login", on behalf of userID.
func (s *Service) BeginChallenge(ctx context.Context, userID, action string) (twofactor.Challenge, error) {
	acc, err := s.enabledAccount(ctx, userID)
	if err != nil {
		return twofactor.Challenge{}, err
	}
	return s.engine.CreateChallenge(ctx, ChallengePayload{UserID: acc.ID, Action: action})
}

// CompleteChallenge verifies the credential for the challenge token. On
// success the challenge is consumed and its payload returned; of several
// concurrent completions only one succeeds, the others get
// ErrChallengeNotFound. A failed or locked attempt leaves the challenge in
// place so the user can retry within its lifetime.
func (s *Service) CompleteChallenge(ctx context.Context, token string, in twofactor.VerifyInput) (ChallengePayload, error) {
	var payload ChallengePayload
	found, err := s.engine.GetChallenge(ctx, token, &payload)
	if err != nil {
		return ChallengePayload{}, err
	}
	if !found {
		return ChallengePayload{}, ErrChallengeNotFound
	}

	acc, err := s.enabledAccount(ctx, payload.UserID)
	if err != nil {
		return ChallengePayload{}, err
	}
	if err := s.verify(ctx, acc, in); err != nil {
		return ChallengePayload{}, err
	}

	found, err = s.engine.TakeChallenge(ctx, token, &payload)
	if err != nil {
		return ChallengePayload{}, err
	}
	if !found {
		s.log.WarnContext(ctx, "challenge already completed", logger.UserID(acc.ID))
		return ChallengePayload{}, ErrChallengeNotFound
	}
	return payload, nil
}

// LockStatus returns the remaining lock time for userID, 0 when not locked.
func (s *Service) LockStatus(ctx context.Context, userID string) (time.Duration, error) {
	acc, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.engine.GetLockTwoFactorAttempt(ctx, acc.user())
}

func (s *Service) enabledAccount(ctx context.Context, userID string) (Account, error) {
	acc, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	if !acc.Enabled || !acc.TwoFactor.Configured() {
		return Account{}, ErrNotEnabled
	}
	return acc, nil
}

// verify checks the lock, the credential and the attempt counter.
func (s *Service) verify(ctx context.Context, acc Account, in twofactor.VerifyInput) error {
	user := acc.user()

	remaining, err := s.engine.GetLockTwoFactorAttempt(ctx, user)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return &LockedError{RetryAfter: remaining}
	}

	res, err := s.engine.VerifyTwoFactor(acc.TwoFactor, in)
	if err != nil {
		return err
	}
	if !res.IsValid {
		return s.recordFailure(ctx, acc, in.Method)
	}

	if res.UsedBackupCode != "" {
		consumed, err := s.repo.ConsumeBackupCode(ctx, acc.ID, res.UsedBackupCode)
		if err != nil {
			return err
		}
		if !consumed {
			return s.recordFailure(ctx, acc, in.Method)
		}
		s.log.InfoContext(ctx, "backup code used",
			logger.UserID(acc.ID),
			slog.Int("remaining", len(res.NewBackupCodes)),
		)
	}
	if acc.TwoFactor.Attempt > 0 {
		if err := s.repo.ResetAttempt(ctx, acc.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, acc Account, method twofactor.Method) error {
	attempt, err := s.repo.IncrementAttempt(ctx, acc.ID)
	if err != nil {
		return errors.Join(ErrInvalidCode, err)
	}
	user := acc.user()
	user.TwoFactor.Attempt = attempt

	s.log.WarnContext(ctx, "two-factor verification failed",
		logger.UserID(acc.ID),
		logger.Method(string(method)),
		logger.Attempt(attempt),
	)
	if !s.engine.CheckAttempt(user) {
		return ErrInvalidCode
	}

	ttl, err := s.engine.LockTwoFactorAttempt(ctx, user)
	if err != nil {
		return errors.Join(ErrInvalidCode, err)
	}
	s.notify(ctx, notification.KindTwoFactorLocked, acc, map[string]string{
		notification.DataRetryAfter: ttl.String(),
	})
	return errors.Join(ErrInvalidCode, &LockedError{RetryAfter: ttl})
}

// notify queues a notification. Queue failures are logged and do not fail
// the operation that triggered them.
func (s *Service) notify(ctx context.Context, kind notification.Kind, acc Account, data map[string]string) {
	if s.queue == nil || acc.Email == "" {
		return
	}
	if data == nil {
		data = make(map[string]string, 1)
	}
	data[notification.DataUserID] = acc.ID

	n := notification.New(kind, acc.Email, data)
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue notification",
			logger.UserID(acc.ID),
			logger.Kind(string(kind)),
			logger.Error(err),
		)
	}
}
