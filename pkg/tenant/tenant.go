package tenant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

type outcomeKind uint8

const (
	outcomePass outcomeKind = iota
	outcomeFound
	outcomeStop
)

// Outcome is the answer of a single strategy.
type Outcome struct {
	kind     outcomeKind
	tenantID string
}

// Pass lets the next strategy try.
func Pass() Outcome { return Outcome{kind: outcomePass} }

// Found ends resolution with tenantID.
func Found(tenantID string) Outcome { return Outcome{kind: outcomeFound, tenantID: tenantID} }

// Stop ends resolution with no tenant. Later strategies are not consulted.
func Stop() Outcome { return Outcome{kind: outcomeStop} }

// Strategy inspects the request and decides whether it identifies a tenant.
// Errors abort resolution and are reserved for backing-store failures.
type Strategy func(ctx context.Context, in *Input) (Outcome, error)

// Input is the request as seen by strategies during one Resolve call.
// Derived values are computed once and shared between strategies.
type Input struct {
	Request *http.Request

	res *Resolver

	host     string
	hostDone bool

	principal     jwt.Principal
	principalOK   bool
	principalDone bool
}

// Host returns the lower-cased request host without port or trailing dot.
func (in *Input) Host() string {
	if !in.hostDone {
		in.host = normalizeHost(in.Request)
		in.hostDone = true
	}
	return in.host
}

// Principal returns the verified credential of the request.
// The credential is extracted and verified at most once; invalid or expired
// credentials are reported as absent.
func (in *Input) Principal(ctx context.Context) (jwt.Principal, bool) {
	if in.principalDone {
		return in.principal, in.principalOK
	}
	in.principalDone = true

	if in.res.verifier == nil {
		return jwt.Principal{}, false
	}
	token, err := in.res.extractor(in.Request)
	if err != nil {
		return jwt.Principal{}, false
	}
	p, err := in.res.verifier.Verify(ctx, token)
	if err != nil || p.UserID == "" {
		in.res.logger.DebugContext(ctx, "ignoring unverifiable credential", logger.Error(err))
		return jwt.Principal{}, false
	}

	in.principal, in.principalOK = p, true
	return p, true
}

// Directory returns the directory the resolver was built with.
func (in *Input) Directory() directory.Directory {
	return in.res.dir
}

// AppDomain returns the configured application domain, possibly empty.
func (in *Input) AppDomain() string {
	return in.res.appDomain
}

// Usable reports whether t may be resolved. With require-active enabled an
// inactive tenant is treated as missing.
func (in *Input) Usable(t *directory.Tenant) bool {
	return t != nil && (t.IsActive || !in.res.requireActive)
}

// TenantByID looks up and validates a tenant. A miss or an unusable tenant
// returns ok=false with a nil error.
func (in *Input) TenantByID(ctx context.Context, id string) (string, bool, error) {
	return in.accept(in.res.dir.FindTenantByID(ctx, id))
}

func (in *Input) accept(t *directory.Tenant, err error) (string, bool, error) {
	if err != nil {
		if errors.Is(err, directory.ErrTenantNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if !in.Usable(t) {
		return "", false, nil
	}
	return t.ID, true, nil
}

func normalizeHost(r *http.Request) string {
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	host = strings.ToLower(strings.TrimSpace(host))

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return strings.TrimSuffix(host, ".")
}
