package tenant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// Resolver determines which tenant a request belongs to by trying its
// strategies strictly in order.
type Resolver struct {
	dir           directory.Directory
	verifier      jwt.Verifier
	extractor     jwt.TokenExtractorFunc
	appDomain     string
	reserved      map[string]struct{}
	headerName    string
	requireActive bool
	strategies    []Strategy
	logger        *slog.Logger
}

// NewResolver creates a resolver over dir.
func NewResolver(dir directory.Directory, opts ...Option) (*Resolver, error) {
	if dir == nil {
		return nil, ErrNoDirectory
	}

	r := &Resolver{
		dir:           dir,
		extractor:     jwt.DefaultExtractor(),
		headerName:    DefaultHeaderName,
		requireActive: true,
		strategies:    DefaultStrategies(),
		logger:        slog.Default(),
	}
	WithReservedLabels(DefaultReservedLabels...)(r)

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the tenant ID of the request, or "" for a tenant-less
// request. Invalid credentials never produce an error; directory failures
// and request cancellation do.
func (r *Resolver) Resolve(req *http.Request) (string, error) {
	ctx := req.Context()
	in := &Input{Request: req, res: r}

	for i, strategy := range r.strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := strategy(ctx, in)
		if err != nil {
			if errors.Is(err, ctx.Err()) {
				return "", err
			}
			return "", errors.Join(ErrResolveFailed, fmt.Errorf("strategy %d: %w", i, err))
		}

		switch out.kind {
		case outcomeFound:
			r.logger.DebugContext(ctx, "tenant resolved",
				logger.TenantID(out.tenantID),
				slog.Int("strategy", i),
			)
			return out.tenantID, nil
		case outcomeStop:
			r.logger.DebugContext(ctx, "tenant resolution stopped",
				slog.String("host", in.Host()),
				slog.Int("strategy", i),
			)
			return "", nil
		}
	}

	return "", nil
}
