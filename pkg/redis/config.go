package redis

import "time"

// Config holds the Redis connection settings shared by the cache store and
// the notification queue.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // redis://:password@host:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"` // bounds all attempts together
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"authguard:"` // prepended by Storage, not by the queue
}
