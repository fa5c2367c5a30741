package pipeline

import "net/http"

// Response renders a terminal outcome to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Location returns the redirect target.
func (r redirectResponse) Location() string { return r.url }

// StatusCode returns the redirect status.
func (r redirectResponse) StatusCode() int { return r.code }

// Redirect creates a redirect response with the given status code.
func Redirect(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}

// PermanentRedirect redirects with 308 so clients and caches canonicalize the URL.
func PermanentRedirect(url string) Response {
	return Redirect(url, http.StatusPermanentRedirect)
}

// TemporaryRedirect redirects with 307, keeping method and body.
func TemporaryRedirect(url string) Response {
	return Redirect(url, http.StatusTemporaryRedirect)
}

type errorResponse struct {
	code    int
	message string
}

func (e errorResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	http.Error(w, e.message, e.code)
	return nil
}

func (e errorResponse) StatusCode() int { return e.code }

// Error creates a plain-text error response.
// An empty message falls back to the status text.
func Error(code int, message string) Response {
	if message == "" {
		message = http.StatusText(code)
	}
	return errorResponse{code: code, message: message}
}
