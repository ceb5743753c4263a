package apikey

import "errors"

var (
	ErrClientNotFound     = errors.New("api client not found")
	ErrClientExists       = errors.New("api client already exists")
	ErrClientRevoked      = errors.New("api client is revoked")
	ErrMissingCredentials = errors.New("missing api client credentials")
	ErrInvalidToken       = errors.New("invalid api key token")
	ErrKeyMismatch        = errors.New("api key token was issued for another client")
	ErrStaleToken         = errors.New("api key token timestamp is outside the allowed window")
	ErrInvalidSecret      = errors.New("api key secret does not match")
	ErrFailedToIssue      = errors.New("failed to issue api client")
	ErrInvalidConfig      = errors.New("invalid api key configuration")
)
