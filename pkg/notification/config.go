package notification

import "time"

// Config holds queue and dispatcher settings.
type Config struct {
	QueueKey    string        `env:"NOTIFICATION_QUEUE_KEY" envDefault:"authguard:notifications"`
	Workers     int           `env:"NOTIFICATION_WORKERS" envDefault:"2"`
	MaxRetries  int           `env:"NOTIFICATION_MAX_RETRIES" envDefault:"3"`
	RetryDelay  time.Duration `env:"NOTIFICATION_RETRY_DELAY" envDefault:"2s"`
	PollTimeout time.Duration `env:"NOTIFICATION_POLL_TIMEOUT" envDefault:"5s"`
	BufferSize  int           `env:"NOTIFICATION_BUFFER_SIZE" envDefault:"256"`
}
