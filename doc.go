// Package gatekeeper resolves the identity of every inbound request to a
// multi-tenant application before business logic runs.
//
// It composes the request pipeline in its canonical order:
//
//	metrics -> tenant -> locale -> authentication -> page authorization
//
// Each stage reads and writes a typed pipeline.State and may end the chain
// with a redirect. New builds the stages from a Config and a
// directory.Directory:
//
//	gk, err := gatekeeper.New(cfg, directory.NewCached(store, directory.NewMemoryTenantStore(1024, 5*time.Minute)))
//	if err != nil {
//	    return err
//	}
//	r := chi.NewRouter()
//	r.Use(gk.Handler())
//
// Downstream handlers read the resolved values with tenant.IDFromContext,
// i18n.GetLocale and pipeline.StateFromContext, or from the X-Resolved-*
// request headers.
package gatekeeper
