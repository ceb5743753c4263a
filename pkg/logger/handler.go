package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of ctx. ok=false skips it.
type ContextExtractor func(ctx context.Context) (attr slog.Attr, ok bool)

// contextHandler runs the extractors on every record before handing it on.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func newContextHandler(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: extractors}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

// Redacted replaces the value of every sensitive attribute.
const Redacted = "[REDACTED]"

// SensitiveKeys are masked by every logger built with New, at any nesting level.
var SensitiveKeys = []string{
	"secret",
	"code",
	"backup_code",
	"backup_codes",
	"passphrase",
	"encryption_key",
	"token",
	"otpauth_url",
}

func redactor(keys map[string]struct{}, next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := keys[a.Key]; ok {
			a.Value = slog.StringValue(Redacted)
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}
}
