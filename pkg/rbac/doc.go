// Package rbac authorizes page requests with a route permission table.
//
// A RouteTable maps locale-relative path prefixes to the roles allowed to
// access them. Lookups use the longest matching prefix, where a prefix
// matches a path exactly or up to a "/" boundary: with "/admin" for
// SuperAdmin and "/admin/users" for SuperAdmin and TenantAdmin, a
// TenantAdmin may open "/admin/users/5" but not "/admin/billing".
//
// Tables are built explicitly with NewRouteTable or loaded from YAML with
// LoadRouteTable and injected into Stage; there is no package-level table.
package rbac
