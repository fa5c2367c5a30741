// Package tenant resolves which tenant an HTTP request belongs to.
//
// A Resolver tries an ordered list of strategies and stops at the first
// definitive answer. The default order is:
//
//  1. Membership: the most recently joined active membership of the user
//     behind the request credential.
//  2. Subdomain: the leftmost label of a subdomain of the application domain,
//     looked up as a tenant slug. An unknown or malformed label stops
//     resolution with no tenant.
//  3. CustomDomain: a host outside the application domain, matched exactly
//     against tenant domains.
//  4. TokenClaim: the tenant_id claim of the credential.
//  5. Header: the X-Tenant-ID header, for trusted internal callers.
//
// Each strategy returns Pass, Found or Stop. Invalid or expired credentials
// are treated as absent and are verified at most once per Resolve call.
// Directory errors other than "not found" abort resolution.
//
// Stage adapts a Resolver to the pipeline package:
//
//	res, err := tenant.NewResolver(dir,
//		tenant.WithAppDomain("app.example"),
//		tenant.WithVerifier(tokens),
//	)
//	mw := pipeline.Compose(tenant.Stage(res), ...)
package tenant
