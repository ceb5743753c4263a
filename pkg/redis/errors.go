package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: REDIS_URL is empty")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection URL")
	ErrRedisNotReady                = errors.New("redis: server not reachable before deadline")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	ErrEmptyKey                     = errors.New("redis: empty cache key")
)
