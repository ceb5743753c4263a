package apikey

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrymomot/authguard/pkg/secrets"
)

var encoding = base64.RawURLEncoding

// Signer creates and opens api key tokens. The zero value is ready to use
// and safe for concurrent use.
type Signer struct{}

// CreateHash returns sha256hex(key + ":" + secret). Only the hash is stored.
func (Signer) CreateHash(key, secret string) string {
	return secrets.SHA256Hex(key + ":" + secret)
}

// ValidateHash compares a stored hash with a candidate in constant time.
func (Signer) ValidateHash(stored, candidate string) bool {
	return secrets.CompareHash(stored, candidate)
}

// NewEnvelope builds the envelope a client sends at t.
func (s Signer) NewEnvelope(key, secret string, t time.Time) Envelope {
	return Envelope{
		Key:       key,
		Timestamp: t.UnixMilli(),
		Hash:      s.CreateHash(key, secret),
	}
}

// Encrypt seals env with a key derived from encryptionKey and passphrase.
// The result is unpadded base64url and safe to put in an HTTP header.
func (Signer) Encrypt(env Envelope, encryptionKey []byte, passphrase string) (string, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}
	sealed, err := secrets.Seal(encryptionKey, passphrase, data)
	if err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}
	return encoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Tampering, a wrong key or
// passphrase and malformed input all return an error wrapping ErrDecryptFailed.
func (Signer) Decrypt(token string, encryptionKey []byte, passphrase string) (Envelope, error) {
	if token == "" {
		return Envelope{}, errors.Join(ErrDecryptFailed, ErrMalformedToken)
	}
	sealed, err := encoding.DecodeString(token)
	if err != nil {
		return Envelope{}, errors.Join(ErrDecryptFailed, ErrMalformedToken)
	}
	data, err := secrets.Open(encryptionKey, passphrase, sealed)
	if err != nil {
		return Envelope{}, errors.Join(ErrDecryptFailed, err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errors.Join(ErrDecryptFailed, ErrMalformedToken)
	}
	if !env.complete() {
		return Envelope{}, errors.Join(ErrDecryptFailed, ErrIncompleteEnvelope)
	}
	return env, nil
}
