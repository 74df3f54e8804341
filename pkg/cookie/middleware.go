package cookie

import (
	"context"
	"net/http"
)

type contextKey struct{}

// WithContext stores jar in ctx.
func WithContext(ctx context.Context, jar *CookieJar) context.Context {
	return context.WithValue(ctx, contextKey{}, jar)
}

// FromContext returns the jar stored by Middleware.
func FromContext(ctx context.Context) (*CookieJar, bool) {
	if ctx == nil {
		return nil, false
	}
	jar, ok := ctx.Value(contextKey{}).(*CookieJar)
	return jar, ok && jar != nil
}

// Middleware builds a jar for every request and makes it available through
// FromContext. The jar is committed to the response headers right before the
// first byte or status code goes out, after which writes to it fail with
// ErrClosedStream. If the handler writes nothing the jar is committed when it
// returns.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jar := m.FromRequest(r)
			rw := &responseWriter{ResponseWriter: w, jar: jar}
			next.ServeHTTP(rw, r.WithContext(WithContext(r.Context(), jar)))
			rw.commit()
		})
	}
}

// responseWriter commits the jar before anything reaches the client.
type responseWriter struct {
	http.ResponseWriter
	jar *CookieJar
}

func (w *responseWriter) commit() {
	w.jar.Commit(w.ResponseWriter.Header())
}

// WriteHeader commits on the final status only. Informational responses such
// as 103 Early Hints leave the jar open; 101 ends the HTTP exchange.
func (w *responseWriter) WriteHeader(status int) {
	if status >= http.StatusOK || status == http.StatusSwitchingProtocols {
		w.commit()
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it.
func (w *responseWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
