// Package totp wraps github.com/pquerna/otp with the handful of operations an
// RFC 6238 enrolment needs: seed generation, key URI construction for
// authenticator apps, code generation and window-tolerant validation.
//
// All functions take an Options value so digits, period and skew are decided
// by the caller's configuration rather than hard-coded. Zero-valued fields fall
// back to the RFC defaults (6 digits, 30 second period, SHA1, ±1 step).
//
// # Usage
//
//	secret, _ := totp.GenerateSecret(20)
//
//	uri, _ := totp.KeyURI(totp.Params{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//
//	ok := totp.Validate(secret, "123456", time.Now(), totp.Options{})
//
// # Error Handling
//
// Validate reports a plain bool: malformed codes and undecodable secrets both
// count as a mismatch. Generation helpers return errors wrapping package
// sentinels such as ErrInvalidSecret and ErrMissingIssuer.
package totp
