package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
	"github.com/fsotosa-ops/oasis-backend/internal/rate"
)

// WithRateLimit aplica fixed-window por clave (usuario autenticado o IP).
// Si el backend del limiter falla, el request pasa: rate limiting caído no
// puede tumbar la API.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "user:" + GetUserID(r.Context())
			if key == "user:" {
				key = "ip:" + clientIP(r)
			}

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter no disponible", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				apierrors.WriteError(w, apierrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extrae la IP del cliente respetando X-Forwarded-For (primer hop).
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
