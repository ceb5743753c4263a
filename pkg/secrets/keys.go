package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required key size for AES-256.
	KeySize = 32

	// sealInfo provides domain separation for keys derived by Seal.
	sealInfo = "authguard-seal-v1"
)

// GenerateKey creates a new random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrFailedToGenerateKey, err)
	}
	return key, nil
}

// EncodeKey returns the standard base64 form used in configuration.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// DecodeKey decodes a base64 key and checks it is exactly KeySize bytes long.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Join(ErrFailedToDecodeKey, err)
	}
	if err := validateKey(key); err != nil {
		return nil, errors.Join(ErrFailedToDecodeKey, err)
	}
	return key, nil
}

func validateKey(key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKey
	}
	return nil
}

// deriveKey mixes key and passphrase with HKDF-SHA-256. key has a fixed length,
// so the concatenation with the passphrase is unambiguous.
// The caller should clear the returned slice once done with it.
func deriveKey(key []byte, passphrase string, salt []byte) ([]byte, error) {
	ikm := make([]byte, 0, len(key)+len(passphrase))
	ikm = append(ikm, key...)
	ikm = append(ikm, passphrase...)
	defer clearBytes(ikm)

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, []byte(sealInfo)), derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return derived, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
