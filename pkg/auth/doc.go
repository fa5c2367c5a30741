// Package auth establishes the principal behind a request and attaches the
// role used for page authorization.
//
// The Authenticator extracts a credential (Bearer header, auth-token or
// session-token cookie by default) and verifies it with a jwt.Verifier. A
// RoleSource decides the effective role: ClaimRoles reads the token's role
// claim, MembershipRoles reads the user's membership in the resolved tenant,
// and FirstOf chains sources.
//
// Anonymous requests for protected localized pages are redirected with 307
// to /{locale}/login?from=<path>.
package auth
