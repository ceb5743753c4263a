// Package redis connects to Redis and exposes it as a cache.Store.
//
// It wraps github.com/redis/go-redis/v9 and adds:
//
//   - Connect, which pings with retries according to Config.
//   - Storage, a cache.Store implementation (GET, SET PX, DEL, GETDEL, PTTL) with a
//     configurable key prefix. Two-factor challenges and lockout flags live here
//     in production.
//   - Healthcheck, for readiness probes.
//
// Configuration is described by Config and populated from the environment
// through pkg/config.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	store := redis.NewStorageFromConfig(client, cfg)
//	engine, err := twofactor.New(tfCfg, store)
//
// # Errors
//
// Sentinel errors (ErrRedisNotReady, ErrHealthcheckFailed, ...) wrap the
// underlying go-redis errors using errors.Join.
package redis
