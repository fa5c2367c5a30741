package rbac

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route grants access to pages under Prefix to the listed roles.
// A route without roles denies everyone. Empty role names are ignored, so no
// route ever admits a principal without a role.
type Route struct {
	Prefix string   `yaml:"prefix" json:"prefix"`
	Roles  []string `yaml:"roles" json:"roles"`
}

// RouteTable maps locale-relative path prefixes to allowed roles.
// It is immutable after construction and safe for concurrent use.
type RouteTable struct {
	routes []Route
	roles  []map[string]struct{}
}

// NewRouteTable normalizes prefixes to a leading slash without a trailing
// one and rejects duplicates, so two distinct prefixes of equal length can
// never match the same path.
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	t := &RouteTable{
		routes: make([]Route, 0, len(routes)),
		roles:  make([]map[string]struct{}, 0, len(routes)),
	}
	seen := make(map[string]struct{}, len(routes))

	for i, r := range routes {
		prefix := NormalizePrefix(r.Prefix)
		if prefix == "" {
			return nil, fmt.Errorf("%w: route %d has no prefix", ErrInvalidRoute, i)
		}
		if _, dup := seen[prefix]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, prefix)
		}
		seen[prefix] = struct{}{}

		set := make(map[string]struct{}, len(r.Roles))
		roles := make([]string, 0, len(r.Roles))
		for _, role := range r.Roles {
			if role == "" {
				continue
			}
			set[role] = struct{}{}
			roles = append(roles, role)
		}
		t.routes = append(t.routes, Route{Prefix: prefix, Roles: roles})
		t.roles = append(t.roles, set)
	}
	return t, nil
}

// MustRouteTable is NewRouteTable that panics on error.
func MustRouteTable(routes ...Route) *RouteTable {
	t, err := NewRouteTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

type routeFile struct {
	Routes []Route `yaml:"routes"`
}

// ParseRouteTable decodes a YAML document of the form:
//
//	routes:
//	  - prefix: /dashboard/reports
//	    roles: [SuperAdmin, TenantAdmin]
func ParseRouteTable(data []byte) (*RouteTable, error) {
	var f routeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrLoadRouteTable, err)
	}
	return NewRouteTable(f.Routes...)
}

// LoadRouteTable reads a YAML route table from path.
func LoadRouteTable(path string) (*RouteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLoadRouteTable, err)
	}
	return ParseRouteTable(data)
}

// Match returns the route with the longest prefix that equals p or matches
// it up to a "/" boundary. Among equal-length candidates the first in table
// order wins.
func (t *RouteTable) Match(p string) (Route, bool) {
	best := t.match(p)
	if best < 0 {
		return Route{}, false
	}
	return t.routes[best], true
}

// Allowed reports whether role may access p. Unmatched paths are allowed.
func (t *RouteTable) Allowed(p, role string) (allowed, matched bool) {
	best := t.match(p)
	if best < 0 {
		return true, false
	}
	_, ok := t.roles[best][role]
	return ok, true
}

// match returns the index of the winning route or -1. Only a strictly
// longer prefix replaces the current candidate.
func (t *RouteTable) match(p string) int {
	best := -1
	for i, r := range t.routes {
		if matches(p, r.Prefix) && (best < 0 || len(r.Prefix) > len(t.routes[best].Prefix)) {
			best = i
		}
	}
	return best
}

// Routes returns a copy of the normalized routes in table order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = Route{Prefix: r.Prefix, Roles: slices.Clone(r.Roles)}
	}
	return out
}

// Len returns the number of routes.
func (t *RouteTable) Len() int { return len(t.routes) }

// NormalizePrefix adds a leading slash and strips trailing ones. "/" is kept.
func NormalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}

func matches(p, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(p, "/")
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
