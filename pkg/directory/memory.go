package directory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Directory used for tests and local development.
type Memory struct {
	mu          sync.RWMutex
	tenants     map[string]*Tenant
	bySlug      map[string]string
	byDomain    map[string]string
	users       map[string]User
	memberships map[string][]Membership
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		tenants:     make(map[string]*Tenant),
		bySlug:      make(map[string]string),
		byDomain:    make(map[string]string),
		users:       make(map[string]User),
		memberships: make(map[string][]Membership),
	}
}

// AddTenant registers a tenant, enforcing slug and domain uniqueness.
func (m *Memory) AddTenant(t Tenant) error {
	if t.ID == "" || t.Slug == "" {
		return fmt.Errorf("%w: tenant requires id and slug", ErrInvalidRecord)
	}
	t.Slug = strings.ToLower(t.Slug)
	t.Domain = strings.ToLower(t.Domain)

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.bySlug[t.Slug]; ok && id != t.ID {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, t.Slug)
	}
	if t.Domain != "" {
		if id, ok := m.byDomain[t.Domain]; ok && id != t.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateDomain, t.Domain)
		}
	}

	if prev, ok := m.tenants[t.ID]; ok {
		delete(m.bySlug, prev.Slug)
		delete(m.byDomain, prev.Domain)
	}

	m.tenants[t.ID] = &t
	m.bySlug[t.Slug] = t.ID
	if t.Domain != "" {
		m.byDomain[t.Domain] = t.ID
	}
	return nil
}

// AddUser registers a user. Memberships on u are ignored; use AddMembership.
func (m *Memory) AddUser(u User) error {
	if u.ID == "" {
		return fmt.Errorf("%w: user requires id", ErrInvalidRecord)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Memberships = nil
	m.users[u.ID] = u
	return nil
}

// AddMembership links a registered user to a registered tenant.
func (m *Memory) AddMembership(ms Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[ms.UserID]; !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, ms.UserID)
	}
	if _, ok := m.tenants[ms.TenantID]; !ok {
		return fmt.Errorf("%w: %s", ErrTenantNotFound, ms.TenantID)
	}
	m.memberships[ms.UserID] = append(m.memberships[ms.UserID], ms)
	return nil
}

// FindTenantBySlug looks up a tenant by slug, case-insensitively.
func (m *Memory) FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return m.lookup(ctx, m.bySlug, strings.ToLower(slug))
}

// FindTenantByDomain looks up a tenant by custom domain, case-insensitively.
func (m *Memory) FindTenantByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return m.lookup(ctx, m.byDomain, strings.ToLower(domain))
}

// FindTenantByID looks up a tenant by ID.
func (m *Memory) FindTenantByID(ctx context.Context, id string) (*Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	out := *t
	return &out, nil
}

// FindUserWithActiveMemberships returns a copy of the user with active
// memberships only, most recently joined first.
func (m *Memory) FindUserWithActiveMemberships(ctx context.Context, userID string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	active := make([]Membership, 0, len(m.memberships[userID]))
	for _, ms := range m.memberships[userID] {
		if ms.IsActive {
			active = append(active, ms)
		}
	}
	slices.SortStableFunc(active, func(a, b Membership) int {
		return cmp.Compare(b.JoinedAt.UnixNano(), a.JoinedAt.UnixNano())
	})
	u.Memberships = active
	return &u, nil
}

func (m *Memory) lookup(ctx context.Context, index map[string]string, key string) (*Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrTenantNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, ErrTenantNotFound
	}
	out := *m.tenants[id]
	return &out, nil
}
