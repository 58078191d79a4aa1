// Package health expone el endpoint de liveness/readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/helpers"
)

// Pinger es lo mínimo que el health check necesita del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller maneja GET /healthz.
type Controller struct {
	db Pinger
}

// New crea el controller de health.
func New(db Pinger) *Controller {
	return &Controller{db: db}
}

// Healthz reporta el estado del servicio y de la base de datos. El servicio
// responde 200 aunque la DB esté caída: el estado va en el body.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(ctx); err != nil {
			dbStatus = "unavailable"
		}
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": dbStatus,
	})
}
