package middlewares

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxPrincipalKey guarda el Principal autenticado
	ctxPrincipalKey ctxKey = "principal"
	// ctxTenantKey guarda el TenantContext resuelto por la autorización
	ctxTenantKey ctxKey = "tenant_context"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (internos, usados por middlewares)
// =================================================================================

// WithPrincipal inyecta el Principal autenticado en el contexto.
func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// WithTenantContext inyecta el TenantContext en el contexto.
func WithTenantContext(ctx context.Context, tc authz.TenantContext) context.Context {
	return context.WithValue(ctx, ctxTenantKey, tc)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (públicos, usados por controllers/services)
// =================================================================================

// GetPrincipal obtiene el Principal del contexto.
// ok = false si el middleware de auth no se aplicó.
func GetPrincipal(ctx context.Context) (types.Principal, bool) {
	if v := ctx.Value(ctxPrincipalKey); v != nil {
		if p, ok := v.(types.Principal); ok {
			return p, true
		}
	}
	return types.Principal{}, false
}

// GetTenantContext obtiene el TenantContext del contexto.
func GetTenantContext(ctx context.Context) (authz.TenantContext, bool) {
	if v := ctx.Value(ctxTenantKey); v != nil {
		if tc, ok := v.(authz.TenantContext); ok {
			return tc, true
		}
	}
	return authz.TenantContext{}, false
}

// GetUserID obtiene el user ID del principal en el contexto.
// Retorna cadena vacía si no hay principal.
func GetUserID(ctx context.Context) string {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return ""
	}
	return p.ID
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
