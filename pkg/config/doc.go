// Package config loads typed configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - The default `.env` file is read once per process (missing file is fine);
//     LoadEnv reads additional files explicitly.
//   - Load parses the environment into any struct annotated with `env` tags and
//     caches the result per type, so a config is parsed once and then shared.
//   - Types implementing Validator are checked right after parsing. Invalid or
//     unparsable configs are returned as errors and never cached.
//   - MustLoad panics on failure, for configuration the process cannot start without.
//   - ResetCache forgets everything, which tests use to reload after t.Setenv.
//
// # Usage
//
//	type Config struct {
//	    Issuer     string `env:"TWO_FACTOR_ISSUER" envDefault:"authguard"`
//	    MaxAttempt int    `env:"TWO_FACTOR_MAX_ATTEMPT" envDefault:"5"`
//	}
//
//	func (c Config) Validate() error {
//	    if c.MaxAttempt < 1 {
//	        return errors.New("max attempt must be positive")
//	    }
//	    return nil
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// ErrParsingConfig wraps env parsing failures, ErrInvalidConfig wraps Validate
// failures, ErrLoadingEnvFile wraps godotenv errors and ErrNilPointer guards
// against a nil target. All are matched with errors.Is.
package config
