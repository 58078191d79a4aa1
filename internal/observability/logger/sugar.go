package logger

import (
	"context"

	"go.uber.org/zap"
)

// S retorna el SugaredLogger del singleton, para logs printf-style:
//
//	logger.S().Infof("org %s recalculada", orgID)
//	logger.S().Errorw("recalc falló", "error", err, "org_id", orgID)
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom es la variante con contexto de S.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
