// Package orgs implementa el servicio de organizaciones y membresías.
package orgs

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	dto "github.com/fsotosa-ops/oasis-backend/internal/httpapi/dto/orgs"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// Service define las operaciones de organizaciones.
type Service interface {
	// ListMine retorna las organizaciones activas del usuario con su rol.
	ListMine(ctx context.Context, p types.Principal) ([]dto.OrganizationWithRole, error)

	// ListMembers retorna los miembros de una organización. Requiere
	// membresía activa en la org (cualquier rol) o platform admin.
	ListMembers(ctx context.Context, p types.Principal, orgID string) ([]dto.Member, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Memberships repository.MembershipRepository
}

type service struct {
	memberships repository.MembershipRepository
}

// New crea el servicio de organizaciones.
func New(deps Deps) Service {
	return &service{memberships: deps.Memberships}
}

func (s *service) ListMine(ctx context.Context, p types.Principal) ([]dto.OrganizationWithRole, error) {
	active, err := s.memberships.ListActiveByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrganizationWithRole, 0, len(active))
	for _, m := range active {
		item := dto.OrganizationWithRole{Role: m.Role, JoinedAt: m.JoinedAt}
		if m.Organization != nil {
			item.Organization = *m.Organization
		} else {
			item.Organization = types.Organization{ID: m.OrganizationID}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) ListMembers(ctx context.Context, p types.Principal, orgID string) ([]dto.Member, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("orgs"),
		logger.Op("ListMembers"),
		logger.OrgID(orgID),
	)

	memberships, err := s.memberships.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	tc, err := authz.AuthorizeOrg(p, memberships, orgID,
		types.RoleOwner, types.RoleAdmin, types.RoleFacilitador, types.RoleParticipante)
	metrics.ObserveAuthzDecision(err == nil)
	if err != nil {
		log.Debug("acceso denegado", logger.Err(err))
		return nil, err
	}

	members, err := s.memberships.ListByOrganization(ctx, tc.OrganizationID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.Member, 0, len(members))
	for _, m := range members {
		out = append(out, dto.Member{
			UserID:   m.UserID,
			Role:     m.Role,
			Status:   m.Status,
			JoinedAt: m.JoinedAt,
		})
	}
	return out, nil
}
