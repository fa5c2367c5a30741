// Package directory holds the tenant and user directory consulted during
// request identity resolution.
//
// A Directory answers four read-only questions: tenant by slug, by custom
// domain, by ID, and a user with their active memberships. Three
// implementations are provided:
//
//   - Memory, an in-process store for tests and local development.
//   - Postgres, backed by a pgx pool with goose migrations embedded in the
//     package (see Migrations).
//   - Cached, a read-through decorator that caches found tenants in a
//     TenantStore (MemoryTenantStore or RedisTenantStore).
//
// Lookups that match nothing return ErrTenantNotFound or ErrUserNotFound.
// Every other error is a backing-store failure and callers should propagate it.
package directory
