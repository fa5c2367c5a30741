package i18n

import (
	"context"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// GetLocale returns the locale detected for the request, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if st, ok := pipeline.StateFromContext(ctx); ok && st.Locale != "" {
		return st.Locale
	}
	return DefaultLanguage
}

// PathWithoutLocale returns the request path with its locale prefix stripped.
func PathWithoutLocale(ctx context.Context) (string, bool) {
	st, ok := pipeline.StateFromContext(ctx)
	if !ok || st.Locale == "" {
		return "", false
	}
	return st.PathWithoutLocale, true
}
