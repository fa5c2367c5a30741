package tenant

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// StageOption configures Stage.
type StageOption func(*stageConfig)

type stageConfig struct {
	skipPaths []string
}

// WithSkipPaths lists path prefixes that bypass tenant resolution.
// A prefix matches the path itself and anything below it on a "/" boundary.
func WithSkipPaths(paths ...string) StageOption {
	return func(c *stageConfig) {
		for _, p := range paths {
			if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
				if !strings.HasPrefix(p, "/") {
					p = "/" + p
				}
				c.skipPaths = append(c.skipPaths, p)
			}
		}
	}
}

// Stage runs the resolver and stores the tenant ID in the pipeline state.
// It never terminates the chain.
func Stage(res *Resolver, opts ...StageOption) pipeline.Middleware {
	cfg := &stageConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *http.Request, st *pipeline.State) (pipeline.Result, error) {
		for _, p := range cfg.skipPaths {
			if r.URL.Path == p || strings.HasPrefix(r.URL.Path, p+"/") {
				return pipeline.Continue(), nil
			}
		}

		id, err := res.Resolve(r)
		if err != nil {
			return pipeline.Continue(), err
		}
		st.TenantID = id
		return pipeline.Continue(), nil
	}
}
