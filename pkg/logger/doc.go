// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options, helper attribute constructors, redaction of
// sensitive keys and injection of values stored in context.Context.
//
// New creates a *slog.Logger configured by a set of Option functions. The
// options select an output format, set the minimum level, attach default
// attributes and register ContextExtractor callbacks that pull values out of
// the context every time a record is handled.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the configured
// Format and, when extractors are registered, wraps it with a handler that runs
// them before delegating. A ReplaceAttr hook masks every key in SensitiveKeys
// (and those added with WithRedactedKeys) with Redacted, at any group depth.
//
// Helper constructors such as UserID, Method, ClientKey and Error keep
// attribute names consistent across the two-factor, API key and notification
// components. Secrets, codes and passphrases never get a helper; if one slips
// into a record under a sensitive key it is masked.
//
// # Usage
//
//	import "github.com/dmitrymomot/authguard/pkg/logger"
//
//	func main() {
//	    log := logger.New(logger.WithEnvironment(os.Getenv("APP_ENV"), "authguard"))
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "two-factor enabled",
//	        logger.UserID("u_42"),
//	        logger.Method("code"),
//	    )
//	}
//
// Components accept a possibly nil *slog.Logger and normalise it with OrNop.
package logger
