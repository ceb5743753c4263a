// Package apikey authenticates API clients with encrypted key tokens built by
// pkg/apikey.
//
// Issue registers a client and returns its credentials once. The service keeps
// the key, the hash of key and secret, the encryption key and the passphrase;
// the secret itself is never stored. A client sends its key in X-Client-Key and
// a fresh token in X-Api-Key:
//
//	token, _ := creds.Token(time.Now())
//	req.Header.Set(apikey.HeaderClientKey, creds.Key)
//	req.Header.Set(apikey.HeaderAPIKey, token)
//
// Authenticate decrypts the token with the client's key material, requires the
// envelope key to match the header, rejects timestamps more than Tolerance away
// from the server clock in either direction and compares the hash in constant
// time. Middleware wraps this for net/http and stores the client in the request
// context.
package apikey
