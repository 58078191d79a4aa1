package middlewares

import (
	"net/http"
	"strings"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARE
// =================================================================================

// RequireAuth valida Authorization: Bearer <JWT> contra el Verifier y guarda
// el Principal en el contexto. Si el token es inválido o falta, responde 401.
func RequireAuth(verifier identity.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				apierrors.WriteError(w, apierrors.ErrUnauthorized)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			principal, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				apierrors.WriteError(w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
