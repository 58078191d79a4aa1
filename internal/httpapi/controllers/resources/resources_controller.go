// Package resources maneja el listado de resources gateados.
package resources

import (
	"net/http"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/apierrors"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/helpers"
	mw "github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	svc "github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/resourcessvc"
)

// Controller maneja GET /api/v1/resources.
type Controller struct {
	service svc.Service
}

// New crea el controller de resources.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// List retorna los resources con su estado de desbloqueo para el usuario.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		apierrors.WriteError(w, apierrors.ErrUnauthorized)
		return
	}

	out, err := c.service.List(ctx, p, r.URL.Query().Get("organization_id"))
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}
