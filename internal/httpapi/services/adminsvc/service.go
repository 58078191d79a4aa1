// Package adminsvc implementa operaciones administrativas de la plataforma.
package adminsvc

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	"github.com/fsotosa-ops/oasis-backend/internal/gamification"
	dto "github.com/fsotosa-ops/oasis-backend/internal/httpapi/dto/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// Service define las operaciones administrativas.
type Service interface {
	// Recalculate realinea puntos de completions y ledger de la org con la
	// configuración vigente. Requiere owner/admin de la org o platform admin.
	Recalculate(ctx context.Context, p types.Principal, orgID, journeyID string) (dto.RecalcResult, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Memberships repository.MembershipRepository
	Recalc      repository.RecalcRepository
	Ledger      repository.LedgerRepository
}

type service struct {
	memberships repository.MembershipRepository
	journeys    repository.RecalcRepository
	recalc      *gamification.Recalculator
}

// New crea el servicio administrativo.
func New(deps Deps) Service {
	return &service{
		memberships: deps.Memberships,
		journeys:    deps.Recalc,
		recalc:      &gamification.Recalculator{Repo: deps.Recalc, Ledger: deps.Ledger},
	}
}

func (s *service) Recalculate(ctx context.Context, p types.Principal, orgID, journeyID string) (dto.RecalcResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.recalc"),
		logger.Op("Recalculate"),
		logger.OrgID(orgID),
	)

	memberships, err := s.memberships.ListByUser(ctx, p.ID)
	if err != nil {
		return dto.RecalcResult{}, err
	}
	tc, err := authz.AuthorizeOrg(p, memberships, orgID, types.RoleOwner, types.RoleAdmin)
	metrics.ObserveAuthzDecision(err == nil)
	if err != nil {
		log.Debug("acceso denegado", logger.Err(err))
		return dto.RecalcResult{}, err
	}

	// Con journey explícito se carga la entidad y se valida pertenencia
	// antes de tocar nada (fetch-then-authorize).
	if journeyID != "" {
		journey, err := s.journeys.GetJourney(ctx, journeyID)
		if err != nil {
			return dto.RecalcResult{}, err
		}
		if err := authz.AuthorizeOwner(tc, "", journey.OrganizationID); err != nil {
			log.Debug("journey fuera de la organización", logger.Err(err))
			return dto.RecalcResult{}, err
		}
	}

	updated, err := s.recalc.Run(ctx, orgID, journeyID)
	if err != nil {
		return dto.RecalcResult{}, err
	}
	metrics.ObserveRecalcUpdates(updated)

	return dto.RecalcResult{UpdatedCompletions: updated}, nil
}
