package apikey

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authguard/pkg/logger"
)

type contextKey struct{}

// WithClient stores the authenticated client in ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ClientFromContext returns the client stored by Middleware.
func ClientFromContext(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(contextKey{}).(Client)
	return c, ok
}

// LoggerExtractor returns a function that enriches log records with the client key.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if c, ok := ClientFromContext(ctx); ok {
			return logger.ClientKey(c.Key), true
		}
		return slog.Attr{}, false
	}
}
