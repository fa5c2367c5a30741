package pipeline

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// ErrorHandler responds to an error that aborted the chain.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type handlerConfig struct {
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// HandlerOption configures Handler.
type HandlerOption func(*handlerConfig)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) HandlerOption {
	return func(c *handlerConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger sets the logger used for aborted chains and render failures.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// Handler adapts mw to net/http middleware.
// A terminal result is rendered and the next handler is skipped. Otherwise the
// state is stored in the request context, mirrored onto request headers and
// next is called. Completion hooks run after the response in both cases.
func Handler(mw Middleware, opts ...HandlerOption) func(http.Handler) http.Handler {
	cfg := &handlerConfig{
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range outboundHeaders {
				r.Header.Del(h)
			}

			st := &State{}
			sw := &statusWriter{ResponseWriter: w}
			defer func() { st.complete(sw.Status()) }()

			res, err := mw(r, st)
			if err != nil {
				if !errors.Is(err, r.Context().Err()) {
					cfg.logger.ErrorContext(r.Context(), "request pipeline aborted",
						logger.Path(r.URL.Path),
						logger.Error(err),
					)
				}
				cfg.errorHandler(sw, r, err)
				return
			}

			if res.Terminated() {
				resp := res.Response()
				if resp == nil {
					cfg.logger.ErrorContext(r.Context(), "request pipeline terminated without response",
						logger.Path(r.URL.Path),
					)
					cfg.errorHandler(sw, r, ErrNilResponse)
					return
				}
				if err := resp.Render(sw, r); err != nil {
					cfg.logger.ErrorContext(r.Context(), "failed to render pipeline response",
						logger.Path(r.URL.Path),
						logger.Error(err),
					)
					if !sw.wroteHeader {
						cfg.errorHandler(sw, r, err)
					}
				}
				return
			}

			st.exportHeaders(r.Header)
			next.ServeHTTP(sw, r.WithContext(WithState(r.Context(), st)))
		})
	}
}

// statusWriter captures the response status for completion hooks.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush keeps streaming responses working behind the adapter.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Status returns the written status, 200 when the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
