// Package httpserver runs the worker's small HTTP surface: liveness and
// readiness probes served by a chi router behind a Server with graceful
// shutdown.
//
//	r := httpserver.NewRouter(log, cfg.CheckTimeout, map[string]httpserver.Check{
//	    "redis": redis.Healthcheck(client),
//	    "mongo": mongo.Healthcheck(mongoClient),
//	})
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	return srv.Run(ctx, r)
//
// Run binds the listener before returning control to the serve loop, so bind
// errors surface immediately wrapped in ErrStart. Cancelling ctx or calling
// Shutdown stops the server within the configured shutdown timeout.
package httpserver
