package repository

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// CatalogRepository accede al catálogo de rewards y resources con sus
// condiciones de desbloqueo ya embebidas.
type CatalogRepository interface {
	// ListRewards retorna el catálogo de rewards visible para la org.
	// orgID vacío = catálogo global completo.
	ListRewards(ctx context.Context, orgID string) ([]types.Reward, error)

	// GetReward retorna un reward con sus condiciones. ErrNotFound si no existe.
	GetReward(ctx context.Context, rewardID string) (types.Reward, error)

	// ListResources retorna los resources visibles para la org.
	ListResources(ctx context.Context, orgID string) ([]types.Resource, error)

	// ResolveNames retorna nombre legible por id para los ids dados
	// (rewards y journeys); se usa para los mensajes de bloqueo.
	ResolveNames(ctx context.Context, ids []string) (map[string]string, error)
}
