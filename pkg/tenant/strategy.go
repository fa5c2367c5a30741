package tenant

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
)

// DNS label: starts with a letter or digit, at most 63 characters.
var labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

const maxLabelLength = 63

// Membership resolves the tenant of the most recently joined active
// membership of the authenticated user.
func Membership(ctx context.Context, in *Input) (Outcome, error) {
	p, ok := in.Principal(ctx)
	if !ok {
		return Pass(), nil
	}

	user, err := in.Directory().FindUserWithActiveMemberships(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return Pass(), nil
		}
		return Pass(), err
	}

	m, ok := directory.LatestActiveMembership(user.Memberships)
	if !ok {
		return Pass(), nil
	}
	return found(in.TenantByID(ctx, m.TenantID))
}

// Subdomain resolves the leftmost label of a strict subdomain of the
// application domain as a tenant slug. Reserved labels pass; an invalid
// label or unknown slug stops resolution.
func Subdomain(ctx context.Context, in *Input) (Outcome, error) {
	label, ok := subdomainLabel(in.Host(), in.AppDomain())
	if !ok {
		return Pass(), nil
	}
	if _, reserved := in.res.reserved[label]; reserved {
		return Pass(), nil
	}
	if len(label) > maxLabelLength || !labelPattern.MatchString(label) {
		return Stop(), nil
	}

	id, ok, err := in.accept(in.Directory().FindTenantBySlug(ctx, label))
	switch {
	case err != nil:
		return Pass(), err
	case !ok:
		return Stop(), nil
	default:
		return Found(id), nil
	}
}

// CustomDomain resolves a host outside the application domain by an exact
// tenant domain match.
func CustomDomain(ctx context.Context, in *Input) (Outcome, error) {
	host := in.Host()
	if host == "" || withinDomain(host, in.AppDomain()) {
		return Pass(), nil
	}
	return found(in.accept(in.Directory().FindTenantByDomain(ctx, host)))
}

// TokenClaim resolves the tenant_id claim of the verified credential.
func TokenClaim(ctx context.Context, in *Input) (Outcome, error) {
	p, ok := in.Principal(ctx)
	if !ok || p.TenantID == "" {
		return Pass(), nil
	}
	return found(in.TenantByID(ctx, p.TenantID))
}

// Header resolves the tenant ID header. Trusted internal callers only.
func Header(ctx context.Context, in *Input) (Outcome, error) {
	id := strings.TrimSpace(in.Request.Header.Get(in.res.headerName))
	if id == "" || len(id) > 128 {
		return Pass(), nil
	}
	return found(in.TenantByID(ctx, id))
}

// DefaultStrategies returns the built-in strategies in precedence order.
func DefaultStrategies() []Strategy {
	return []Strategy{Membership, Subdomain, CustomDomain, TokenClaim, Header}
}

func found(id string, ok bool, err error) (Outcome, error) {
	if err != nil || !ok {
		return Pass(), err
	}
	return Found(id), nil
}

// subdomainLabel returns the leftmost label when host is a strict subdomain of appDomain.
func subdomainLabel(host, appDomain string) (string, bool) {
	if appDomain == "" || host == appDomain || !strings.HasSuffix(host, "."+appDomain) {
		return "", false
	}
	rest := strings.TrimSuffix(host, "."+appDomain)
	label, _, _ := strings.Cut(rest, ".")
	return label, label != ""
}

func withinDomain(host, appDomain string) bool {
	return appDomain != "" && (host == appDomain || strings.HasSuffix(host, "."+appDomain))
}
