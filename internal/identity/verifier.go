// Package identity valida los tokens emitidos por el proveedor de identidad
// externo y los traduce a un Principal tipado. Aquí no se emiten tokens ni se
// manejan credenciales: eso es territorio del proveedor.
package identity

import (
	"context"
	"errors"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// ErrUnauthorized indica un token ausente, inválido o expirado.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier traduce un bearer token crudo a un Principal autenticado.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (types.Principal, error)
}
