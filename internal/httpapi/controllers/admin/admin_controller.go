// Package admin maneja las rutas administrativas.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	dto "github.com/fsotosa-ops/oasis-backend/internal/httpapi/dto/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/helpers"
	mw "github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	svc "github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/adminsvc"
)

// Controller maneja las rutas administrativas.
type Controller struct {
	service svc.Service
}

// New crea el controller administrativo.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Recalculate maneja POST /api/v1/admin/organizations/{org_id}/recalculate.
// El body es opcional; journey_id restringe el recálculo a un journey.
func (c *Controller) Recalculate(w http.ResponseWriter, r *http.Request) {
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

	var req dto.RecalcRequest
	if r.ContentLength > 0 {
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
	}

	out, err := c.service.Recalculate(ctx, p, orgID, req.JourneyID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}
