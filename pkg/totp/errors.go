package totp

import "errors"

var (
	ErrFailedToGenerateSecretKey = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateTOTP      = errors.New("failed to generate TOTP")
	ErrFailedToBuildKeyURI       = errors.New("failed to build TOTP key URI")
	ErrInvalidSecretLength       = errors.New("invalid secret length, must be greater than 0")
	ErrMissingSecret             = errors.New("missing secret")
	ErrInvalidSecret             = errors.New("invalid secret")
	ErrMissingAccountName        = errors.New("missing account name")
	ErrMissingIssuer             = errors.New("missing issuer")
	ErrInvalidDigits             = errors.New("invalid number of digits")
)
