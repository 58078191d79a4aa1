package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

func member(org string, role types.Role, status types.MembershipStatus) types.Membership {
	return types.Membership{
		UserID:         "u1",
		OrganizationID: org,
		Role:           role,
		Status:         status,
		JoinedAt:       time.Now(),
	}
}

func TestAuthorize_AdminGlobalSinHint(t *testing.T) {
	p := types.Principal{ID: "admin1", IsPlatformAdmin: true}

	tc, err := Authorize(p, nil, Capability{OrgRequired: false})
	require.NoError(t, err)
	require.True(t, tc.IsPlatformAdmin)
	require.True(t, tc.Global())
	require.Equal(t, types.RoleOwner, tc.Role)
	require.Equal(t, "admin1", tc.UserID)
}

func TestAuthorize_AdminConHintNoVerificaMembresia(t *testing.T) {
	p := types.Principal{ID: "admin1", IsPlatformAdmin: true}

	// Sin membresías: el override de admin es incondicional.
	tc, err := Authorize(p, nil, Capability{
		AllowedRoles: []types.Role{types.RoleOwner},
		OrgRequired:  true,
		OrgIDHint:    "orgA",
	})
	require.NoError(t, err)
	require.Equal(t, "orgA", tc.OrganizationID)
	require.Equal(t, types.RoleOwner, tc.Role)
	require.True(t, tc.IsPlatformAdmin)
}

func TestAuthorize_OrgRequiredSinHintDeniegaInclusoAdmin(t *testing.T) {
	admin := types.Principal{ID: "admin1", IsPlatformAdmin: true}
	user := types.Principal{ID: "u1"}

	_, err := Authorize(admin, nil, Capability{OrgRequired: true})
	require.ErrorIs(t, err, ErrOrgRequired)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = Authorize(user, nil, Capability{OrgRequired: true})
	require.ErrorIs(t, err, ErrOrgRequired)
}

func TestAuthorize_NoAdminSinHintDeniega(t *testing.T) {
	p := types.Principal{ID: "u1"}
	ms := []types.Membership{member("orgA", types.RoleOwner, types.MembershipActive)}

	_, err := Authorize(p, ms, Capability{OrgRequired: false})
	require.ErrorIs(t, err, ErrOrgRequired)
}

func TestAuthorize_NoMiembro(t *testing.T) {
	p := types.Principal{ID: "u1"}
	ms := []types.Membership{member("orgB", types.RoleOwner, types.MembershipActive)}

	_, err := Authorize(p, ms, Capability{
		AllowedRoles: []types.Role{types.RoleOwner},
		OrgRequired:  true,
		OrgIDHint:    "orgA",
	})
	require.ErrorIs(t, err, ErrNotMember)
}

func TestAuthorize_MembresiaNoActiva(t *testing.T) {
	p := types.Principal{ID: "u1"}

	for _, st := range []types.MembershipStatus{
		types.MembershipInvited,
		types.MembershipSuspended,
		types.MembershipInactive,
	} {
		ms := []types.Membership{member("orgA", types.RoleAdmin, st)}
		_, err := Authorize(p, ms, Capability{
			AllowedRoles: []types.Role{types.RoleAdmin},
			OrgRequired:  true,
			OrgIDHint:    "orgA",
		})
		require.ErrorIs(t, err, ErrMembershipInactive, "status %s", st)
	}
}

// Escenario 1 del diseño: participante pidiendo capability de admin.
func TestAuthorize_RolInsuficiente(t *testing.T) {
	p := types.Principal{ID: "u1"}
	ms := []types.Membership{member("A", types.RoleParticipante, types.MembershipActive)}

	_, err := Authorize(p, ms, Capability{
		AllowedRoles: []types.Role{types.RoleAdmin, types.RoleOwner},
		OrgRequired:  true,
		OrgIDHint:    "A",
	})
	require.ErrorIs(t, err, ErrInsufficientRole)
	require.Contains(t, err.Error(), "participante")
}

// Escenario 2: mismo principal con capability que incluye su rol.
func TestAuthorize_RolPermitido(t *testing.T) {
	p := types.Principal{ID: "u1"}
	ms := []types.Membership{member("A", types.RoleParticipante, types.MembershipActive)}

	tc, err := Authorize(p, ms, Capability{
		AllowedRoles: []types.Role{types.RoleFacilitador, types.RoleAdmin, types.RoleOwner, types.RoleParticipante},
		OrgRequired:  true,
		OrgIDHint:    "A",
	})
	require.NoError(t, err)
	require.Equal(t, "A", tc.OrganizationID)
	require.Equal(t, types.RoleParticipante, tc.Role)
	require.False(t, tc.IsPlatformAdmin)
}

// Propiedad: para cualquier contenido de memberships, un platform admin nunca
// falla por ausencia de membresía.
func TestAuthorize_AdminNuncaFallaPorMembresia(t *testing.T) {
	p := types.Principal{ID: "admin1", IsPlatformAdmin: true}

	cases := [][]types.Membership{
		nil,
		{},
		{member("X", types.RoleParticipante, types.MembershipSuspended)},
		{member("orgA", types.RoleParticipante, types.MembershipInactive)},
	}
	for _, ms := range cases {
		tc, err := AuthorizeOrg(p, ms, "orgA", types.RoleOwner)
		require.NoError(t, err)
		require.Equal(t, types.RoleOwner, tc.Role)
	}
}

func TestAuthorizeOrg_FuerzaOrgRequired(t *testing.T) {
	p := types.Principal{ID: "u1"}
	_, err := AuthorizeOrg(p, nil, "", types.RoleOwner)
	require.ErrorIs(t, err, ErrOrgRequired)
}

func TestAuthorizeGlobal_AdminPuedeOmitirOrg(t *testing.T) {
	admin := types.Principal{ID: "a", IsPlatformAdmin: true}
	user := types.Principal{ID: "u"}

	tc, err := AuthorizeGlobal(admin, nil, "")
	require.NoError(t, err)
	require.True(t, tc.Global())

	_, err = AuthorizeGlobal(user, nil, "")
	require.ErrorIs(t, err, ErrOrgRequired)
}

func TestAuthorizeOwner(t *testing.T) {
	admin := TenantContext{UserID: "a", IsPlatformAdmin: true}
	require.NoError(t, AuthorizeOwner(admin, "otro", "otraOrg"))

	owner := TenantContext{UserID: "u1", OrganizationID: "A", Role: types.RoleParticipante}
	require.NoError(t, AuthorizeOwner(owner, "u1", ""))

	orgAdmin := TenantContext{UserID: "u2", OrganizationID: "A", Role: types.RoleAdmin}
	require.NoError(t, AuthorizeOwner(orgAdmin, "u1", "A"))

	// Facilitador de la org no administra entidades ajenas.
	facil := TenantContext{UserID: "u3", OrganizationID: "A", Role: types.RoleFacilitador}
	err := AuthorizeOwner(facil, "u1", "A")
	require.ErrorIs(t, err, ErrNotOwner)
	require.True(t, IsForbidden(err))
}
