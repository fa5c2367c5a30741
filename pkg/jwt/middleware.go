package jwt

import (
	"net/http"
)

// SkipFunc reports whether a request bypasses token validation.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig configures MiddlewareWithConfig.
type MiddlewareConfig struct {
	Verifier  Verifier
	Extractor TokenExtractorFunc // defaults to DefaultExtractor
	Skip      SkipFunc
	// Optional reports whether requests without a valid token still pass through.
	Optional bool
}

// Middleware rejects requests without a valid token with 401 and stores the
// token and principal in the request context otherwise.
func Middleware(v Verifier) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Verifier: v})
}

// MiddlewareWithConfig is Middleware with explicit configuration.
func MiddlewareWithConfig(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Verifier == nil {
		panic("jwt: middleware requires a verifier")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = DefaultExtractor()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := cfg.Extractor(r)
			if err == nil {
				var p Principal
				if p, err = cfg.Verifier.Verify(r.Context(), token); err == nil {
					ctx := SetPrincipal(SetToken(r.Context(), token), p)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if cfg.Optional {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
}
