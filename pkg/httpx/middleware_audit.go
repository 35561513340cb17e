package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/onbd/pkg/slogx"
)

// AuditRecord describes one completed request.
type AuditRecord struct {
	UserID string
	IP     string
	Path   string
	Method string
	Status int
	At     time.Time
}

// AuditHook receives exactly one record per request after the handler has
// returned. It must not block.
type AuditHook func(ctx context.Context, rec AuditRecord)

// AuditMiddleware observes the final status of every request and hands an
// AuditRecord to hook. Requests whose handler panicked are reported as 500
// and the panic is re-raised for the recoverer further out. clientIP
// resolves AuditRecord.IP; nil means IPKeyExtractor.
func AuditMiddleware(hook AuditHook, clientIP KeyExtractor) Middleware {
	if clientIP == nil {
		clientIP = IPKeyExtractor
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			holder := &auditHolder{}
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			ctx := withAuditHolder(r.Context(), holder)

			defer func() {
				p := recover()
				status := rw.status
				if p != nil {
					status = http.StatusInternalServerError
				}

				hook(ctx, AuditRecord{
					UserID: holder.UserID(),
					IP:     clientIP(r),
					Path:   r.URL.RequestURI(),
					Method: r.Method,
					Status: status,
					At:     time.Now().UTC(),
				})

				if p != nil {
					panic(p)
				}
			}()

			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}

// Recoverer turns handler panics into a 500 JSON response.
func Recoverer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				slogx.FromContext(r.Context()).Error("panic serving request",
					"panic", p,
					"path", r.URL.Path,
				)
				if !rw.wroteHeader {
					WriteError(rw, http.StatusInternalServerError, "server_error", "An internal error occurred")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

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
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
