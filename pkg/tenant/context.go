package tenant

import (
	"context"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// IDFromContext returns the tenant resolved for the request, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	st, ok := pipeline.StateFromContext(ctx)
	if !ok || !st.HasTenant() {
		return "", false
	}
	return st.TenantID, true
}
