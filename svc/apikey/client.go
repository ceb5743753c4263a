package apikey

import (
	"context"
	"time"

	"github.com/dmitrymomot/authguard/pkg/apikey"
	"github.com/dmitrymomot/authguard/pkg/secrets"
)

// Client is a registered API client.
type Client struct {
	Key           string    `bson:"_id" json:"key"`
	Name          string    `bson:"name" json:"name"`
	Hash          string    `bson:"hash" json:"-"`
	EncryptionKey string    `bson:"encryption_key" json:"-"` // base64, 32 bytes
	Passphrase    string    `bson:"passphrase" json:"-"`
	Revoked       bool      `bson:"revoked" json:"revoked"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Credentials are handed to a client once, at issue time.
type Credentials struct {
	Key           string `json:"key"`
	Secret        string `json:"secret"`
	EncryptionKey string `json:"encryption_key"`
	Passphrase    string `json:"passphrase"`
}

// Token builds the X-Api-Key value for a request sent at t.
func (c Credentials) Token(t time.Time) (string, error) {
	key, err := secrets.DecodeKey(c.EncryptionKey)
	if err != nil {
		return "", err
	}
	var signer apikey.Signer
	return signer.Encrypt(signer.NewEnvelope(c.Key, c.Secret, t), key, c.Passphrase)
}

// Repository stores API clients.
type Repository interface {
	// Create returns ErrClientExists when the key is taken.
	Create(ctx context.Context, c Client) error
	// FindByKey returns ErrClientNotFound for an unknown key.
	FindByKey(ctx context.Context, key string) (Client, error)
	// Revoke marks the client revoked. Revoking twice is not an error.
	Revoke(ctx context.Context, key string) error
}
