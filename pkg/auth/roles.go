package auth

import (
	"context"
	"errors"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// RoleSource determines the effective role of a principal for the request.
// An empty role with a nil error means the principal has no role.
type RoleSource interface {
	Role(ctx context.Context, p jwt.Principal, st *pipeline.State) (string, error)
}

// RoleSourceFunc adapts a function to RoleSource.
type RoleSourceFunc func(ctx context.Context, p jwt.Principal, st *pipeline.State) (string, error)

// Role calls f.
func (f RoleSourceFunc) Role(ctx context.Context, p jwt.Principal, st *pipeline.State) (string, error) {
	return f(ctx, p, st)
}

// ClaimRoles uses the role claim carried by the credential.
func ClaimRoles() RoleSource {
	return RoleSourceFunc(func(_ context.Context, p jwt.Principal, _ *pipeline.State) (string, error) {
		return p.Role, nil
	})
}

// MembershipRoles uses the role of the principal's active membership in the
// resolved tenant. Tenant-less requests have no role.
func MembershipRoles(dir directory.Directory) RoleSource {
	return RoleSourceFunc(func(ctx context.Context, p jwt.Principal, st *pipeline.State) (string, error) {
		if !st.HasTenant() {
			return "", nil
		}
		user, err := dir.FindUserWithActiveMemberships(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, directory.ErrUserNotFound) {
				return "", nil
			}
			return "", err
		}
		m, ok := user.MembershipFor(st.TenantID)
		if !ok {
			return "", nil
		}
		return m.Role, nil
	})
}

// FirstOf returns the first non-empty role among sources, in order.
func FirstOf(sources ...RoleSource) RoleSource {
	return RoleSourceFunc(func(ctx context.Context, p jwt.Principal, st *pipeline.State) (string, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			role, err := src.Role(ctx, p, st)
			if err != nil {
				return "", err
			}
			if role != "" {
				return role, nil
			}
		}
		return "", nil
	})
}
