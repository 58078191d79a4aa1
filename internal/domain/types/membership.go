package types

import "time"

// Role representa el rol de un usuario dentro de una organización.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleAdmin        Role = "admin"
	RoleFacilitador  Role = "facilitador"
	RoleParticipante Role = "participante"
)

// Valid verifica que el rol sea uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleFacilitador, RoleParticipante:
		return true
	}
	return false
}

// CanManageOrg indica si el rol puede administrar la organización.
func (r Role) CanManageOrg() bool {
	return r == RoleOwner || r == RoleAdmin
}

// MembershipStatus representa el estado de una membresía.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInvited   MembershipStatus = "invited"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipInactive  MembershipStatus = "inactive"
)

// Membership es la relación (usuario, organización) con rol y estado.
// Se consulta fresca en cada request; nunca se cachea entre requests.
type Membership struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	OrganizationID string           `json:"organization_id"`
	Role           Role             `json:"role"`
	Status         MembershipStatus `json:"status"`
	JoinedAt       time.Time        `json:"joined_at"`

	// Organization embebida cuando el repositorio la incluye (listado de orgs).
	Organization *Organization `json:"organization,omitempty"`
}

// Organization metadata mínima de una organización.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Type string `json:"type,omitempty"`
}
