package i18n

import (
	"net/http"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// Stage localizes requests by URL path only; Accept-Language is never read.
//
// Bypassed paths continue untouched. The root path and paths without a
// supported locale prefix are permanently redirected to the default locale.
// Otherwise the locale and the path without it are stored in the state.
func Stage(router *Router) pipeline.Middleware {
	return func(r *http.Request, st *pipeline.State) (pipeline.Result, error) {
		p := r.URL.Path
		if p == "" {
			p = "/"
		}

		if p != "/" && router.Bypass(p) {
			return pipeline.Continue(), nil
		}

		locale, rest, ok := router.Detect(p)
		if !ok {
			return pipeline.Terminate(pipeline.PermanentRedirect(router.Redirect(r))), nil
		}

		st.Locale = locale
		st.PathWithoutLocale = rest
		return pipeline.Continue(), nil
	}
}
