package middlewares

import (
	"net/http"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// WithRecover convierte panics de handlers en 500 con el envelope estándar.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic en handler",
						logger.Any("panic", rec),
						logger.Path(r.URL.Path),
					)
					apierrors.WriteError(w, apierrors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
