// Package resourcessvc implementa el listado de resources gateados.
package resourcessvc

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	"github.com/fsotosa-ops/oasis-backend/internal/gamification"
	dto "github.com/fsotosa-ops/oasis-backend/internal/httpapi/dto/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
)

// Service lista los resources con su estado de desbloqueo por usuario.
type Service interface {
	List(ctx context.Context, p types.Principal, orgID string) ([]dto.ResourceStatus, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Memberships repository.MembershipRepository
	Ledger      repository.LedgerRepository
	Progress    repository.ProgressRepository
	Catalog     repository.CatalogRepository
}

type service struct {
	memberships repository.MembershipRepository
	ledger      repository.LedgerRepository
	progress    repository.ProgressRepository
	catalog     repository.CatalogRepository
}

// New crea el servicio de resources.
func New(deps Deps) Service {
	return &service{
		memberships: deps.Memberships,
		ledger:      deps.Ledger,
		progress:    deps.Progress,
		catalog:     deps.Catalog,
	}
}

func (s *service) List(ctx context.Context, p types.Principal, orgID string) ([]dto.ResourceStatus, error) {
	memberships, err := s.memberships.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	_, err = authz.AuthorizeGlobal(p, memberships, orgID,
		types.RoleOwner, types.RoleAdmin, types.RoleFacilitador, types.RoleParticipante)
	metrics.ObserveAuthzDecision(err == nil)
	if err != nil {
		return nil, err
	}

	resources, err := s.catalog.ListResources(ctx, orgID)
	if err != nil {
		return nil, err
	}

	condSets := make([][]types.UnlockCondition, 0, len(resources))
	for _, r := range resources {
		condSets = append(condSets, r.UnlockConditions)
	}
	loader := &gamification.StateLoader{Ledger: s.ledger, Progress: s.progress, Catalog: s.catalog}
	state, err := loader.Load(ctx, p.ID, orgID, gamification.ConditionRefIDs(condSets...))
	if err != nil {
		return nil, err
	}

	out := make([]dto.ResourceStatus, 0, len(resources))
	for _, r := range resources {
		unlocked, reasons := gamification.EvaluateUnlock(gamification.Unlockable{
			Logic:      r.UnlockLogic,
			Conditions: r.UnlockConditions,
		}, state)
		metrics.ObserveUnlock(unlocked)
		out = append(out, dto.ResourceStatus{
			Resource:      r,
			Unlocked:      unlocked,
			LockedReasons: reasons,
		})
	}
	return out, nil
}
