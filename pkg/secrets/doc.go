// Package secrets bundles the symmetric-crypto and hashing helpers shared by the
// two-factor engine and the API key signer.
//
// Three encryption shapes are provided:
//
//  1. IV-parameterised AES-256-GCM (`EncryptWithIV`, `DecryptWithIV`). The caller
//     owns the 16-byte initialisation vector and stores it next to the ciphertext,
//     which is how encrypted TOTP seeds are persisted. The vector travels in a
//     tagged form (`hex:<32 hex chars>`, see `NewIVTag` and `ParseIVTag`) so that
//     other encodings can be introduced without ambiguity.
//  2. Passphrase sealing (`Seal`, `Open`). A per-message key is derived with
//     HKDF-SHA-256 from a 32-byte key, a passphrase and a random salt, then used
//     with AES-256-GCM. The output is self-contained: version, salt, nonce and
//     ciphertext are concatenated.
//  3. Key helpers: `GenerateKey`, `EncodeKey` and `DecodeKey` (base64, 32 bytes).
//
// Hashing helpers (`SHA256Hex`, `CompareHash`) and a crypto/rand backed
// `RandomString` complete the set.
//
// # Usage
//
//	key, _ := secrets.GenerateKey()
//	iv, _ := secrets.NewIVTag()
//
//	ct, err := secrets.EncryptWithIV(key, iv, "JBSWY3DPEHPK3PXP")
//	if err != nil {
//	    // handle error
//	}
//	plain, err := secrets.DecryptWithIV(key, iv, ct)
//
//	sealed, _ := secrets.Seal(key, "passphrase", []byte(`{"key":"abc"}`))
//	data, err := secrets.Open(key, "passphrase", sealed)
//
// # Error Handling
//
// Every failure wraps a package sentinel (`ErrEncryptionFailed`,
// `ErrDecryptionFailed`, `ErrInvalidCiphertext`, `ErrInvalidKey`, ...). Decryption
// errors never include plaintext or key material. Match them with errors.Is.
package secrets
