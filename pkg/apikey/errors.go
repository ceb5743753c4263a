package apikey

import "errors"

var (
	ErrEncryptFailed      = errors.New("failed to encrypt api key envelope")
	ErrDecryptFailed      = errors.New("failed to decrypt api key envelope")
	ErrMalformedToken     = errors.New("malformed api key token")
	ErrIncompleteEnvelope = errors.New("api key envelope is incomplete")
)
