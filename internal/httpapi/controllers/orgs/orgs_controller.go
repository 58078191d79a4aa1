// Package orgs maneja las rutas de organizaciones y membresías.
package orgs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/helpers"
	mw "github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	svc "github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/orgs"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// Controller maneja las rutas de organizaciones.
type Controller struct {
	service svc.Service
}

// New crea el controller de organizaciones.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// ListMine maneja GET /api/v1/users/me/organizations.
func (c *Controller) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	out, err := c.service.ListMine(ctx, p)
	if err != nil {
		logger.From(ctx).Error("listado de organizaciones falló", logger.Err(err))
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

// ListMembers maneja GET /api/v1/organizations/{org_id}/members.
func (c *Controller) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	orgID := chi.URLParam(r, "org_id")
	if orgID == "" {
		apierrors.WriteError(w, apierrors.ErrBadRequest.WithMessage("org_id es requerido"))
		return
	}

	out, err := c.service.ListMembers(ctx, p, orgID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}
