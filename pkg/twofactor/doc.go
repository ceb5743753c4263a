// Package twofactor implements the TOTP based second factor: secret
// generation and encryption at rest, backup codes, short-lived challenge
// tokens and exponential lockout after repeated failures.
//
// Engine holds no mutable state. Challenges and lock flags live in a
// cache.Store and expire through the store's TTL, so the same Engine can be
// shared by every request handler.
//
// # Usage
//
//	var cfg twofactor.Config
//	config.MustLoad(&cfg)
//
//	engine, err := twofactor.New(cfg, store)
//	if err != nil {
//	    return err
//	}
//
//	setup, err := engine.SetupTwoFactor("jane@example.com")
//	// persist setup.EncryptedSecret and setup.IV, show setup.OtpauthURL once
//
//	res, err := engine.VerifyTwoFactor(user.TwoFactor, twofactor.VerifyInput{
//	    Method: twofactor.MethodCode,
//	    Code:   "123456",
//	})
//
// Persisting the state, counting failed attempts and deciding when to lock are
// left to the caller. The increment and the lock check are separate cache and
// database round trips, so two concurrent failures may both observe the same
// attempt count.
package twofactor
