// Package jwt issues and verifies the HS256 credentials that identify
// principals.
//
// Service wraps github.com/golang-jwt/jwt/v5. It issues tokens whose subject
// is the user ID and which may carry tenant_id and role claims. It also
// implements Verifier, the collaborator used by the tenant resolver and the
// authentication stage:
//
//	svc, err := jwt.NewFromString(secret, jwt.WithTTL(time.Hour))
//	token, err := svc.Issue(userID, tenantID, "Employee")
//	principal, err := svc.Verify(ctx, token)
//
// Credentials are found in a request by a TokenExtractorFunc. DefaultExtractor
// checks the Bearer Authorization header, then the auth-token cookie, then the
// session-token cookie.
//
// Middleware guards plain net/http handlers (API routes) and stores the token
// and Principal in the request context. Use GetPrincipal to read them back.
package jwt
