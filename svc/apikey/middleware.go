package apikey

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/authguard/pkg/logger"
)

const (
	HeaderClientKey = "X-Client-Key"
	HeaderAPIKey    = "X-Api-Key"
)

// Authenticator is the part of Service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, clientKey, token string) (Client, error)
}

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	errorHandler ErrorHandler
	skipPaths    []string
	log          *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler replaces the default error response.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithSkipPaths lets requests whose path starts with any prefix through unauthenticated.
func WithSkipPaths(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, prefixes...)
	}
}

// WithMiddlewareLogger logs unexpected authentication errors.
func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.log = logger.OrNop(l)
	}
}

// Middleware authenticates requests by the X-Client-Key and X-Api-Key headers
// and stores the client in the request context.
func Middleware(auth Authenticator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: defaultErrorHandler,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			client, err := auth.Authenticate(r.Context(),
				strings.TrimSpace(r.Header.Get(HeaderClientKey)),
				strings.TrimSpace(r.Header.Get(HeaderAPIKey)),
			)
			if err != nil {
				if status(err) == http.StatusInternalServerError {
					cfg.log.ErrorContext(r.Context(), "api client authentication failed", logger.Error(err))
				}
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
		})
	}
}

// RequireClient rejects requests that reach it without an authenticated client.
func RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClientFromContext(r.Context()); !ok {
			defaultErrorHandler(w, r, ErrMissingCredentials)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func status(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrKeyMismatch),
		errors.Is(err, ErrStaleToken),
		errors.Is(err, ErrInvalidSecret):
		return http.StatusUnauthorized
	case errors.Is(err, ErrClientRevoked):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Unknown keys and bad tokens share one message.
func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	switch code := status(err); code {
	case http.StatusUnauthorized:
		http.Error(w, "Unauthorized", code)
	case http.StatusForbidden:
		http.Error(w, "API client is revoked", code)
	default:
		http.Error(w, "Internal server error", code)
	}
}
