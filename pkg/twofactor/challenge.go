package twofactor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/authguard/pkg/cache"
	"github.com/dmitrymomot/authguard/pkg/secrets"
)

// CreateChallenge stores payload as JSON under a fresh random token for
// ChallengeTTL.
func (e *Engine) CreateChallenge(ctx context.Context, payload any) (Challenge, error) {
	token, err := secrets.RandomString(ChallengeTokenLength, secrets.AlphabetAlphanumeric)
	if err != nil {
		return Challenge{}, errors.Join(ErrFailedToCreateToken, err)
	}
	if err := cache.SetJSON(ctx, e.store, e.cacheKey(token), payload, e.cfg.ChallengeTTL); err != nil {
		return Challenge{}, errors.Join(ErrFailedToStoreChallenge, err)
	}
	return Challenge{Token: token, ExpiresIn: e.cfg.ChallengeTTL}, nil
}

// GetChallenge decodes the payload stored for token into dst.
// A missing or expired challenge returns false and no error.
func (e *Engine) GetChallenge(ctx context.Context, token string, dst any) (bool, error) {
	if token == "" {
		return false, nil
	}
	data, ok, err := e.store.Get(ctx, e.cacheKey(token))
	if err != nil {
		return false, errors.Join(ErrFailedToLoadChallenge, err)
	}
	if !ok {
		return false, nil
	}
	if dst != nil {
		if err := json.Unmarshal(data, dst); err != nil {
			return false, errors.Join(ErrFailedToLoadChallenge, cache.ErrFailedToDecode, err)
		}
	}
	return true, nil
}

// TakeChallenge decodes the payload stored for token into dst and removes
// the challenge in the same step. Of several concurrent callers with the
// same token only one gets true.
func (e *Engine) TakeChallenge(ctx context.Context, token string, dst any) (bool, error) {
	if token == "" {
		return false, nil
	}
	data, ok, err := e.store.Take(ctx, e.cacheKey(token))
	if err != nil {
		return false, errors.Join(ErrFailedToLoadChallenge, err)
	}
	if !ok {
		return false, nil
	}
	if dst != nil {
		if err := json.Unmarshal(data, dst); err != nil {
			return false, errors.Join(ErrFailedToLoadChallenge, cache.ErrFailedToDecode, err)
		}
	}
	return true, nil
}

// ClearChallenge removes the challenge. Clearing a missing token is not an error.
func (e *Engine) ClearChallenge(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return e.store.Delete(ctx, e.cacheKey(token))
}
