// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	adminctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/admin"
	gamctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/gamification"
	healthctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/health"
	orgsctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/orgs"
	resctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/resources"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
	mw "github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
	"github.com/fsotosa-ops/oasis-backend/internal/rate"
)

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Verifier identity.Verifier
	Limiter  rate.Limiter // opcional

	Health       *healthctrl.Controller
	Orgs         *orgsctrl.Controller
	Gamification *gamctrl.Controller
	Resources    *resctrl.Controller
	Admin        *adminctrl.Controller

	MetricsHandler http.Handler
	AllowedOrigins []string
}

// New arma el router completo: middlewares globales, rutas públicas y el
// árbol autenticado bajo /api/v1.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares globales, el primero es el más externo.
	r.Use(mw.WithRequestID())
	r.Use(mw.WithRecover())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithCORS(deps.AllowedOrigins))
	r.Use(metrics.WithMetrics())
	r.Use(mw.WithLogging())

	// ─── Públicas ───
	r.Get("/healthz", deps.Health.Healthz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// ─── Autenticadas ───
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RequireAuth(deps.Verifier))
		if deps.Limiter != nil {
			r.Use(mw.WithRateLimit(deps.Limiter))
		}

		r.Get("/users/me/organizations", deps.Orgs.ListMine)
		r.Get("/organizations/{org_id}/members", deps.Orgs.ListMembers)
		r.Post("/organizations/{org_id}/steps/{step_id}/complete", deps.Gamification.CompleteStep)

		r.Route("/gamification", func(r chi.Router) {
			r.Get("/progress", deps.Gamification.Progress)
			r.Get("/ledger", deps.Gamification.Ledger)
			r.Get("/rewards", deps.Gamification.Rewards)
			r.Get("/rewards/{reward_id}", deps.Gamification.Reward)
		})

		r.Get("/resources", deps.Resources.List)

		r.Post("/admin/organizations/{org_id}/recalculate", deps.Admin.Recalculate)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, apierrors.ErrNotFound.WithMessage("Ruta no encontrada"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, apierrors.ErrBadRequest.WithMessage("Método no permitido"))
	})

	return r
}
