// Package gamification maneja las rutas de progreso, ledger y catálogo.
package gamification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/helpers"
	mw "github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	svc "github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/gamificationsvc"
)

// Controller maneja las rutas de gamificación.
type Controller struct {
	service svc.Service
}

// New crea el controller de gamificación.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// orgIDQuery lee el hint de organización del query string.
func orgIDQuery(r *http.Request) string {
	return r.URL.Query().Get("organization_id")
}

// Progress maneja GET /api/v1/gamification/progress.
func (c *Controller) Progress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	out, err := c.service.GetProgress(ctx, p, orgIDQuery(r))
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

// Ledger maneja GET /api/v1/gamification/ledger.
func (c *Controller) Ledger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apierrors.WriteError(w, apierrors.ErrValidation.WithMessage("limit debe ser un entero positivo"))
			return
		}
		limit = n
	}

	out, err := c.service.ListLedger(ctx, p, orgIDQuery(r), limit)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

// Rewards maneja GET /api/v1/gamification/rewards.
func (c *Controller) Rewards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	out, err := c.service.ListRewards(ctx, p, orgIDQuery(r))
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

// Reward maneja GET /api/v1/gamification/rewards/{reward_id}.
func (c *Controller) Reward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	rewardID := chi.URLParam(r, "reward_id")
	out, err := c.service.GetReward(ctx, p, orgIDQuery(r), rewardID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

// CompleteStep maneja POST /api/v1/organizations/{org_id}/steps/{step_id}/complete.
func (c *Controller) CompleteStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	orgID := chi.URLParam(r, "org_id")
	stepID := chi.URLParam(r, "step_id")

	out, err := c.service.CompleteStep(ctx, p, orgID, stepID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusCreated, out)
}
