package jwt

import (
	"net/http"
	"strings"
)

// Cookie names checked by DefaultExtractor, in order.
const (
	AuthCookieName    = "auth-token"
	SessionCookieName = "session-token"
)

// TokenExtractorFunc pulls a raw credential out of a request.
// It returns ErrNoToken when the request carries none.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor reads "Authorization: Bearer <token>". The scheme is case-insensitive.
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// CookieTokenExtractor reads the named cookie.
func CookieTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrNoToken
		}
		return c.Value, nil
	}
}

// HeaderTokenExtractor reads a custom header.
func HeaderTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := strings.TrimSpace(r.Header.Get(name))
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}
}

// QueryTokenExtractor reads a query parameter.
// Tokens in URLs leak into logs, so prefer headers or cookies.
func QueryTokenExtractor(param string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := r.URL.Query().Get(param)
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}
}

// ChainExtractors returns the first credential found by extractors, in order.
func ChainExtractors(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		for _, extract := range extractors {
			if extract == nil {
				continue
			}
			if token, err := extract(r); err == nil && token != "" {
				return token, nil
			}
		}
		return "", ErrNoToken
	}
}

// DefaultExtractor checks the Authorization header, then the auth cookie,
// then the session cookie.
func DefaultExtractor() TokenExtractorFunc {
	return ChainExtractors(
		BearerTokenExtractor,
		CookieTokenExtractor(AuthCookieName),
		CookieTokenExtractor(SessionCookieName),
	)
}
