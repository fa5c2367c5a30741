// Package i18n routes requests by the locale prefix of their URL path.
//
// A Router holds the supported locale codes (validated as BCP 47 tags with
// golang.org/x/text/language), the default locale, and the infrastructure
// prefixes and static asset extensions that are never localized. Stage turns
// a Router into a pipeline stage:
//
//	router, err := i18n.NewRouter("en", []string{"en", "es", "fr"})
//	mw := pipeline.Compose(..., i18n.Stage(router), ...)
//
// "/" redirects to "/en", "/pricing?x=1" redirects to "/en/pricing?x=1", and
// "/es/dashboard" sets the locale to "es" with path "/dashboard". Redirects
// use 308 so clients and caches canonicalize the URL.
package i18n
