// Package orgs define los DTOs de organizaciones y membresías.
package orgs

import (
	"time"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// OrganizationWithRole es una organización del usuario con su rol en ella.
type OrganizationWithRole struct {
	Organization types.Organization `json:"organization"`
	Role         types.Role         `json:"role"`
	JoinedAt     time.Time          `json:"joined_at"`
}

// Member es un miembro de la organización visto desde el listado.
type Member struct {
	UserID   string                 `json:"user_id"`
	Role     types.Role             `json:"role"`
	Status   types.MembershipStatus `json:"status"`
	JoinedAt time.Time              `json:"joined_at"`
}
