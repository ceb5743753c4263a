package twofactor

import "errors"

var (
	ErrInvalidConfig          = errors.New("invalid two-factor configuration")
	ErrFailedToGenerateSecret = errors.New("failed to generate two-factor secret")
	ErrFailedToBuildKeyURI    = errors.New("failed to build key uri")
	ErrFailedToEncryptSecret  = errors.New("failed to encrypt two-factor secret")
	ErrFailedToDecryptSecret  = errors.New("failed to decrypt two-factor secret")
	ErrFailedToGenerateCodes  = errors.New("failed to generate backup codes")
	ErrFailedToCreateToken    = errors.New("failed to create challenge token")
	ErrFailedToStoreChallenge = errors.New("failed to store challenge")
	ErrFailedToLoadChallenge  = errors.New("failed to load challenge")
	ErrMissingUserID          = errors.New("user id is required")
	ErrUnknownMethod          = errors.New("unknown two-factor method")
)
