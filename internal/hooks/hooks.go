// Package hooks ejecuta side-effects no críticos (registro de actividad,
// notificaciones) sin propagar sus errores al flujo principal.
package hooks

import (
	"context"
	"time"

	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// defaultTimeout acota la duración de un hook para que no retenga el request.
const defaultTimeout = 5 * time.Second

// RunNonCritical ejecuta fn y registra el resultado. Un error del hook jamás
// se devuelve al llamador: la operación principal ya se confirmó.
func RunNonCritical(ctx context.Context, name string, fn func(context.Context) error) {
	log := logger.From(ctx).With(logger.Hook(name))

	hctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error("hook no crítico abortó con panic", logger.Any("panic", r))
		}
	}()

	if err := fn(hctx); err != nil {
		log.Warn("hook no crítico falló", logger.Err(err))
		return
	}
	log.Debug("hook no crítico completado")
}
