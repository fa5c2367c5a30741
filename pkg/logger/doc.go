// Package logger builds *slog.Logger values through functional options and
// injects request-scoped attributes from context.Context.
//
// New picks a text or JSON handler and wraps it with LogHandlerDecorator,
// which runs every registered ContextExtractor on each record. WithRequestID
// reads the id assigned by chi's RequestID middleware; the request pipeline
// contributes its own extractors for tenant, locale and role.
//
//	log := logger.New(
//	    logger.WithEnvironment(logger.ParseEnvironment(os.Getenv("APP_ENV")), "gatekeeper"),
//	    logger.WithRequestID(),
//	)
//	log.InfoContext(ctx, "tenant resolved", logger.TenantID(id))
//
// Attribute helpers (Error, TenantID, Locale, Role...) keep key names
// consistent and return an empty Attr for empty input, so call sites need no
// nil checks.
package logger
