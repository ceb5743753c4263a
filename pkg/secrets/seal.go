package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

const (
	sealVersion  byte = 1
	sealSaltSize      = 16
)

// Seal encrypts data with a key derived from key and passphrase.
// Output layout: version(1) | salt(16) | nonce(12) | ciphertext+tag.
// The version byte is authenticated as additional data.
func Seal(key []byte, passphrase string, data []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	if passphrase == "" {
		return nil, errors.Join(ErrEncryptionFailed, ErrEmptyPassphrase)
	}

	salt := make([]byte, sealSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	aead, err := sealCipher(key, passphrase, salt)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	header := make([]byte, 0, 1+sealSaltSize+len(nonce))
	header = append(header, sealVersion)
	header = append(header, salt...)
	header = append(header, nonce...)

	return aead.Seal(header, nonce, data, []byte{sealVersion}), nil
}

// Open reverses Seal. Tampering, a wrong key or a wrong passphrase all
// surface as ErrDecryptionFailed.
func Open(key []byte, passphrase string, sealed []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if passphrase == "" {
		return nil, errors.Join(ErrDecryptionFailed, ErrEmptyPassphrase)
	}
	if len(sealed) < 1+sealSaltSize || sealed[0] != sealVersion {
		return nil, errors.Join(ErrDecryptionFailed, ErrInvalidCiphertext)
	}

	salt := sealed[1 : 1+sealSaltSize]
	aead, err := sealCipher(key, passphrase, salt)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	rest := sealed[1+sealSaltSize:]
	if len(rest) < aead.NonceSize()+aead.Overhead() {
		return nil, errors.Join(ErrDecryptionFailed, ErrInvalidCiphertext)
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	data, err := aead.Open(nil, nonce, ciphertext, []byte{sealVersion})
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return data, nil
}

func sealCipher(key []byte, passphrase string, salt []byte) (cipher.AEAD, error) {
	derived, err := deriveKey(key, passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer clearBytes(derived)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
