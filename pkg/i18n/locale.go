package i18n

import (
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no locale is configured or detected.
const DefaultLanguage = "en"

// DefaultBypassPrefixes are infrastructure paths that are never localized.
var DefaultBypassPrefixes = []string{"/api", "/_next", "/static", "/healthz"}

// DefaultStaticExtensions are file extensions served without a locale prefix.
var DefaultStaticExtensions = []string{
	".css", ".js", ".mjs", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp", ".avif",
	".woff", ".woff2", ".ttf", ".otf",
	".txt", ".xml", ".webmanifest",
}

// Router detects the locale prefix of request paths.
// Matching is exact and case-sensitive against the supported codes.
type Router struct {
	defaultLocale string
	supported     []string
	bypass        []string
	extensions    map[string]struct{}
}

// Option configures a Router.
type Option func(*Router)

// WithBypassPrefixes replaces the infrastructure prefixes that skip localization.
func WithBypassPrefixes(prefixes ...string) Option {
	return func(r *Router) {
		r.bypass = slices.Clone(prefixes)
	}
}

// WithStaticExtensions replaces the static asset extension allowlist.
func WithStaticExtensions(exts ...string) Option {
	return func(r *Router) {
		r.extensions = extensionSet(exts)
	}
}

// NewRouter validates the locale configuration. Every code must be a
// well-formed BCP 47 tag and defaultLocale must be one of supported.
func NewRouter(defaultLocale string, supported []string, opts ...Option) (*Router, error) {
	if len(supported) == 0 {
		return nil, ErrNoLocales
	}

	r := &Router{
		defaultLocale: defaultLocale,
		bypass:        slices.Clone(DefaultBypassPrefixes),
		extensions:    extensionSet(DefaultStaticExtensions),
	}
	for _, code := range supported {
		if code == "" || strings.Contains(code, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, code)
		}
		if _, err := language.Parse(code); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLocale, code, err)
		}
		if !slices.Contains(r.supported, code) {
			r.supported = append(r.supported, code)
		}
	}
	if !slices.Contains(r.supported, defaultLocale) {
		return nil, fmt.Errorf("%w: %q", ErrDefaultNotSupported, defaultLocale)
	}

	for _, opt := range opts {
		opt(r)
	}
	for _, p := range r.bypass {
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBypassPrefix, p)
		}
	}
	return r, nil
}

// Default returns the default locale.
func (r *Router) Default() string { return r.defaultLocale }

// Supported returns a copy of the supported locales.
func (r *Router) Supported() []string { return slices.Clone(r.supported) }

// Bypass reports whether p is an infrastructure path or a static asset.
func (r *Router) Bypass(p string) bool {
	for _, prefix := range r.bypass {
		prefix = strings.TrimSuffix(prefix, "/")
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	_, ok := r.extensions[ext]
	return ok
}

// Detect splits a path into its locale and the remainder. The remainder
// always starts with "/"; "/es" yields ("es", "/").
func (r *Router) Detect(p string) (locale, rest string, ok bool) {
	for _, code := range r.supported {
		prefix := "/" + code
		switch {
		case p == prefix:
			return code, "/", true
		case strings.HasPrefix(p, prefix+"/"):
			return code, p[len(prefix):], true
		}
	}
	return "", "", false
}

// Redirect returns the default-locale URL for an unprefixed request,
// keeping the escaped path and the query string.
func (r *Router) Redirect(req *http.Request) string {
	target := "/" + r.defaultLocale
	if p := req.URL.EscapedPath(); p != "" && p != "/" {
		target += p
	}
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	return target
}

// LocalizedPath prefixes p with the locale. p may omit its leading slash.
func LocalizedPath(locale, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if locale == "" {
		return p
	}
	if p == "/" {
		return "/" + locale
	}
	return "/" + locale + p
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}
