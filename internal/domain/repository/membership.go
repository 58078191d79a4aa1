package repository

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// MembershipRepository carga las membresías de un usuario.
//
// ListByUser retorna TODAS las membresías sin filtrar por estado: el filtrado
// por estado es responsabilidad del motor de autorización, no del repositorio.
// ListActiveByUser es la variante filtrada que usan el perfil y el listado de
// organizaciones del usuario.
type MembershipRepository interface {
	// ListByUser retorna las membresías del usuario, cualquier estado.
	ListByUser(ctx context.Context, userID string) ([]types.Membership, error)

	// ListActiveByUser retorna solo membresías con status = active,
	// con la organización embebida.
	ListActiveByUser(ctx context.Context, userID string) ([]types.Membership, error)

	// ListByOrganization retorna los miembros de una organización.
	ListByOrganization(ctx context.Context, orgID string) ([]types.Membership, error)
}
