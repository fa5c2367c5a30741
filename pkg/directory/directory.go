package directory

import (
	"cmp"
	"context"
	"slices"
	"time"
)

// Tenant is an isolated customer context.
// Slug and Domain each identify at most one tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Domain    string    `json:"domain,omitempty"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership grants a user a role within a tenant.
type Membership struct {
	UserID   string    `json:"user_id"`
	TenantID string    `json:"tenant_id"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`
}

// User is a directory user with the memberships returned by the lookup.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Memberships []Membership `json:"memberships"`
}

// Directory provides read-only lookups against the tenant/user directory.
// Lookups return ErrTenantNotFound or ErrUserNotFound when nothing matches;
// any other error is a backing-store failure.
type Directory interface {
	FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindTenantByDomain(ctx context.Context, domain string) (*Tenant, error)
	FindTenantByID(ctx context.Context, id string) (*Tenant, error)

	// FindUserWithActiveMemberships returns the user with active memberships
	// only, most recently joined first.
	FindUserWithActiveMemberships(ctx context.Context, userID string) (*User, error)
}

// LatestActiveMembership returns the most recently joined active membership.
// Ties on JoinedAt keep the order of the input.
func LatestActiveMembership(memberships []Membership) (Membership, bool) {
	active := make([]Membership, 0, len(memberships))
	for _, m := range memberships {
		if m.IsActive {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return Membership{}, false
	}
	slices.SortStableFunc(active, func(a, b Membership) int {
		return cmp.Compare(b.JoinedAt.UnixNano(), a.JoinedAt.UnixNano())
	})
	return active[0], true
}

// MembershipFor returns the active membership of the user in tenantID.
func (u *User) MembershipFor(tenantID string) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.IsActive && m.TenantID == tenantID {
			return m, true
		}
	}
	return Membership{}, false
}
