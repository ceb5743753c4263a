package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
)

// EncryptWithIV encrypts plaintext with AES-256-GCM using the vector carried
// by ivTag as nonce. The result is base64-encoded.
//
// The same (key, iv) pair must not be reused for different plaintexts; callers
// generate a fresh tag with NewIVTag for every secret they store.
func EncryptWithIV(key []byte, ivTag, plaintext string) (string, error) {
	aead, iv, err := ivCipher(key, ivTag)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}
	ciphertext := aead.Seal(nil, iv, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptWithIV reverses EncryptWithIV. A wrong key or vector fails
// authentication and returns ErrDecryptionFailed.
func DecryptWithIV(key []byte, ivTag, ciphertext string) (string, error) {
	aead, iv, err := ivCipher(key, ivTag)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, ErrInvalidCiphertext)
	}
	if len(raw) < aead.Overhead() {
		return "", errors.Join(ErrDecryptionFailed, ErrInvalidCiphertext)
	}

	plaintext, err := aead.Open(nil, iv, raw, nil)
	if err != nil {
		// Wrong key, wrong vector or tampered data.
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func ivCipher(key []byte, ivTag string) (cipher.AEAD, []byte, error) {
	if err := validateKey(key); err != nil {
		return nil, nil, err
	}
	iv, err := ParseIVTag(ivTag)
	if err != nil {
		return nil, nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, nil, err
	}
	return aead, iv, nil
}
