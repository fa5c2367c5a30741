package directory

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gatekeeper/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations for the PostgreSQL directory,
// rooted so that goose sees the .sql files at the top level.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Tables lists the tables created by Migrations.
var Tables = []string{"tenants", "users", "memberships"}

const tenantColumns = `id::text, slug, COALESCE(domain, ''), name, is_active, created_at`

// Postgres is a Directory backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL directory. The schema from Migrations must be applied.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// FindTenantBySlug looks up a tenant by slug, case-insensitively.
func (p *Postgres) FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return p.queryTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE LOWER(slug) = LOWER($1)`, slug)
}

// FindTenantByDomain looks up a tenant by custom domain, case-insensitively.
func (p *Postgres) FindTenantByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return p.queryTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE LOWER(domain) = LOWER($1)`, domain)
}

// FindTenantByID looks up a tenant by ID. Malformed IDs are reported as not found.
func (p *Postgres) FindTenantByID(ctx context.Context, id string) (*Tenant, error) {
	// Non-UUID identifiers can never match and would fail the cast.
	if !isUUID(id) {
		return nil, ErrTenantNotFound
	}
	return p.queryTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1::uuid`, id)
}

// FindUserWithActiveMemberships loads the user and its active memberships,
// most recently joined first.
func (p *Postgres) FindUserWithActiveMemberships(ctx context.Context, userID string) (*User, error) {
	if !isUUID(userID) {
		return nil, ErrUserNotFound
	}

	var u User
	err := p.pool.QueryRow(ctx, `SELECT id::text, email FROM users WHERE id = $1::uuid`, userID).Scan(&u.ID, &u.Email)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("directory: find user: %w", err)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT user_id::text, tenant_id::text, role, is_active, joined_at
		FROM memberships
		WHERE user_id = $1::uuid AND is_active
		ORDER BY joined_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("directory: query memberships: %w", err)
	}

	u.Memberships, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Membership, error) {
		var m Membership
		err := row.Scan(&m.UserID, &m.TenantID, &m.Role, &m.IsActive, &m.JoinedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("directory: scan memberships: %w", err)
	}
	return &u, nil
}

// CreateTenant inserts a tenant. Uniqueness violations map to ErrDuplicateSlug or ErrDuplicateDomain.
func (p *Postgres) CreateTenant(ctx context.Context, t Tenant) error {
	var domain *string
	if t.Domain != "" {
		d := strings.ToLower(t.Domain)
		domain = &d
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO tenants (id, slug, domain, name, is_active) VALUES ($1::uuid, $2, $3, $4, $5)`,
		t.ID, strings.ToLower(t.Slug), domain, t.Name, t.IsActive)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			if pg.ConstraintName(err) == "tenants_domain_key" {
				return errors.Join(ErrDuplicateDomain, err)
			}
			return errors.Join(ErrDuplicateSlug, err)
		}
		return fmt.Errorf("directory: create tenant: %w", err)
	}
	return nil
}

// SetTenantActive switches the active flag of the tenant with slug and
// returns the updated record.
func (p *Postgres) SetTenantActive(ctx context.Context, slug string, active bool) (*Tenant, error) {
	return p.queryTenant(ctx,
		`UPDATE tenants SET is_active = $2 WHERE LOWER(slug) = LOWER($1) RETURNING `+tenantColumns,
		slug, active)
}

// CreateUser inserts a user.
func (p *Postgres) CreateUser(ctx context.Context, u User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, email) VALUES ($1::uuid, $2)`, u.ID, u.Email)
	if err != nil {
		return fmt.Errorf("directory: create user: %w", err)
	}
	return nil
}

// AddMembership inserts or replaces the membership of a user in a tenant.
func (p *Postgres) AddMembership(ctx context.Context, m Membership) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO memberships (user_id, tenant_id, role, is_active, joined_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		ON CONFLICT (user_id, tenant_id) DO UPDATE
		SET role = EXCLUDED.role, is_active = EXCLUDED.is_active, joined_at = EXCLUDED.joined_at`,
		m.UserID, m.TenantID, m.Role, m.IsActive, m.JoinedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return errors.Join(ErrInvalidRecord, err)
		}
		return fmt.Errorf("directory: add membership: %w", err)
	}
	return nil
}

func (p *Postgres) queryTenant(ctx context.Context, query, arg string, args ...any) (*Tenant, error) {
	if arg == "" {
		return nil, ErrTenantNotFound
	}
	var t Tenant
	err := p.pool.QueryRow(ctx, query, append([]any{arg}, args...)...).Scan(&t.ID, &t.Slug, &t.Domain, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("directory: find tenant: %w", err)
	}
	return &t, nil
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}
