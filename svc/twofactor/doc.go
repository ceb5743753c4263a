// Package twofactor orchestrates the two-factor lifecycle of a user account
// on top of pkg/twofactor: enrolment, activation with backup codes,
// deactivation, backup code rotation and the challenge step of a login or
// sensitive action.
//
// Service owns the read-verify-write sequence the engine leaves to callers.
// A failed verification increments the stored attempt counter and, once
// MaxAttempt is reached, sets the lock flag and queues a two_factor.locked
// notification. A successful one resets the counter. A used backup code is
// removed with Repository.ConsumeBackupCode, which succeeds for one request
// only, and a completed challenge is claimed with an atomic take, so neither
// can authenticate two concurrent requests. The counter is incremented atomically by the repository,
// but the lock check that follows is a separate step; two concurrent failures
// can both see the same count and both lock, which only extends the lock.
//
//	svc := twofactor.NewService(engine, repo, queue, twofactor.WithLogger(log))
//
//	enrol, _ := svc.Setup(ctx, userID)          // show enrol.QRCode
//	codes, _ := svc.Enable(ctx, userID, "123456") // show codes once
//
//	ch, _ := svc.BeginChallenge(ctx, userID, "login")
//	payload, err := svc.CompleteChallenge(ctx, ch.Token, input)
//	var locked *twofactor.LockedError
//	if errors.As(err, &locked) {
//	    // retry after locked.RetryAfter
//	}
package twofactor
