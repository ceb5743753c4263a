package secrets

import "errors"

var (
	// Key errors
	ErrInvalidKey          = errors.New("invalid key: must be 32 bytes")
	ErrFailedToGenerateKey = errors.New("failed to generate key")
	ErrFailedToDecodeKey   = errors.New("failed to decode key")
	ErrKeyDerivationFailed = errors.New("key derivation failed")

	// IV errors
	ErrInvalidIV           = errors.New("invalid initialization vector")
	ErrUnsupportedIVFormat = errors.New("unsupported initialization vector format")
	ErrFailedToGenerateIV  = errors.New("failed to generate initialization vector")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	ErrEmptyPassphrase   = errors.New("passphrase must not be empty")

	ErrFailedToGenerateRandom = errors.New("failed to generate random string")
)
