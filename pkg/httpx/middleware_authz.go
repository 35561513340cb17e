package httpx

import "net/http"

// AuthorizeFunc decides whether a caller holding role may proceed.
// authenticated is false when no bearer middleware ran or it found no subject.
type AuthorizeFunc func(role string, authenticated bool) bool

// RequireRole rejects callers for which allow returns false. Unauthenticated
// callers get 401, authenticated callers with the wrong role get 403.
func RequireRole(allow AuthorizeFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			_, authenticated := UserIDFromContext(ctx)
			role, _ := RoleFromContext(ctx)

			if allow(role, authenticated) {
				next.ServeHTTP(w, r)
				return
			}

			if !authenticated {
				writeBearerError(w, "authentication required")
				return
			}
			w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
			WriteError(w, http.StatusForbidden, "forbidden", "Insufficient role for this operation")
		})
	}
}
