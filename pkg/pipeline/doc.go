// Package pipeline composes request middleware into one ordered chain with
// explicit short-circuit semantics.
//
// A Middleware inspects the request and the per-request State and returns a
// Result: Continue lets the next stage run, Terminate ends the chain with a
// Response (redirect, denial). Stages communicate exclusively through State,
// which later stages read and the final handler receives via the request
// context.
//
// # Usage
//
//	chain := pipeline.Compose(
//		metrics.Stage(recorder),
//		tenant.Stage(resolver),
//		i18n.Stage(locales),
//		authenticator.Stage(),
//		rbac.Stage(routes),
//	)
//
//	router.Use(pipeline.Handler(chain, pipeline.WithLogger(log)))
//
//	func dashboard(w http.ResponseWriter, r *http.Request) {
//		st, _ := pipeline.StateFromContext(r.Context())
//		_ = st.TenantID
//	}
//
// # Error Handling
//
// Errors returned by a stage abort the chain and propagate unchanged. The
// net/http adapter hands them to its ErrorHandler, which by default responds
// with 500 so that a request never proceeds with an unresolved identity.
//
// # Outbound headers
//
// Before calling the next handler the adapter mirrors State onto request
// headers (HeaderActiveLocale, HeaderPathWithoutLocale, HeaderResolvedRole,
// HeaderResolvedTenantID). Inbound copies of those headers are removed first,
// so clients cannot inject them.
package pipeline
