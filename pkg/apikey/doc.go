// Package apikey signs service-to-service requests.
//
// A client holds a public key, a secret, a 32-byte encryption key and a
// passphrase. For each request it builds an Envelope binding its key, the
// current time and sha256(key ":" secret), seals it and sends the result in a
// header. The server resolves the client by key, opens the envelope with the
// stored encryption key and passphrase, then checks freshness and the hash.
//
// Token format: base64url(version | salt | nonce | AES-256-GCM(json(envelope)))
// with the cipher key derived by HKDF-SHA256 from the encryption key and the
// passphrase.
//
// # Usage
//
//	var signer apikey.Signer
//
//	// client side
//	env := signer.NewEnvelope(clientKey, clientSecret, time.Now())
//	tok, err := signer.Encrypt(env, encryptionKey, passphrase)
//	req.Header.Set("X-Api-Key", tok)
//
//	// server side
//	env, err := signer.Decrypt(tok, client.EncryptionKey, client.Passphrase)
//	if err != nil {
//	    return errors.Is(err, apikey.ErrDecryptFailed)
//	}
//	ok := signer.ValidateHash(client.Hash, env.Hash)
//
// The package does not enforce freshness; see svc/apikey for the full check.
package apikey
