package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// Demo directory. UUIDs so the same data loads into PostgreSQL.
var (
	demoTenants = []directory.Tenant{
		{ID: "6f1c8a52-6d0e-4c55-9a51-0d7f1b0e2a01", Slug: "acme", Name: "Acme Corp", IsActive: true},
		{ID: "6f1c8a52-6d0e-4c55-9a51-0d7f1b0e2a02", Slug: "globex", Domain: "portal.globex.test", Name: "Globex", IsActive: true},
		{ID: "6f1c8a52-6d0e-4c55-9a51-0d7f1b0e2a03", Slug: "initech", Name: "Initech", IsActive: false},
	}
	demoUsers = []directory.User{
		{ID: "0b7e2d10-3c8f-4f0e-8d8e-5a9b7c6d5e01", Email: "manager@acme.test"},
		{ID: "0b7e2d10-3c8f-4f0e-8d8e-5a9b7c6d5e02", Email: "employee@acme.test"},
	}
	demoMemberships = []directory.Membership{
		{UserID: demoUsers[0].ID, TenantID: demoTenants[0].ID, Role: "TenantManager", IsActive: true, JoinedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{UserID: demoUsers[1].ID, TenantID: demoTenants[0].ID, Role: "Employee", IsActive: true, JoinedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: demoUsers[1].ID, TenantID: demoTenants[1].ID, Role: "Employee", IsActive: true, JoinedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
)

func seedMemory(mem *directory.Memory) error {
	for _, t := range demoTenants {
		if err := mem.AddTenant(t); err != nil {
			return err
		}
	}
	for _, u := range demoUsers {
		if err := mem.AddUser(u); err != nil {
			return err
		}
	}
	for _, m := range demoMemberships {
		if err := mem.AddMembership(m); err != nil {
			return err
		}
	}
	return nil
}

func seedPostgres(ctx context.Context, p *directory.Postgres) error {
	for _, t := range demoTenants {
		if err := ignoreDuplicate(p.CreateTenant(ctx, t)); err != nil {
			return err
		}
	}
	for _, u := range demoUsers {
		if err := ignoreDuplicate(p.CreateUser(ctx, u)); err != nil {
			return err
		}
	}
	for _, m := range demoMemberships {
		if err := p.AddMembership(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

type resolvedView struct {
	Tenant            string `json:"tenant,omitempty"`
	Locale            string `json:"locale,omitempty"`
	PathWithoutLocale string `json:"path_without_locale,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	Role              string `json:"role,omitempty"`
}

func viewOf(r *http.Request) (resolvedView, error) {
	st, err := pipeline.FromRequest(r)
	if err != nil {
		return resolvedView{}, err
	}
	return resolvedView{
		Tenant:            st.TenantID,
		Locale:            st.Locale,
		PathWithoutLocale: st.PathWithoutLocale,
		UserID:            st.UserID,
		Role:              st.Role,
	}, nil
}

// pageHandler stands in for the application: it echoes what the pipeline resolved.
func pageHandler(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "page %s\n", v.PathWithoutLocale)
	fmt.Fprintf(w, "tenant: %s\nlocale: %s\nuser: %s\nrole: %s\n", v.Tenant, v.Locale, v.UserID, v.Role)
}

// whoamiHandler serves the token-protected API.
func whoamiHandler(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p, ok := jwt.GetPrincipal(r.Context()); ok {
		v.UserID = p.UserID
		if v.Role == "" {
			v.Role = p.Role
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
