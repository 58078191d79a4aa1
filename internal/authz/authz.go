// Package authz implementa el motor de autorización multi-tenant.
//
// Dado un Principal verificado, sus membresías y la capability requerida por
// el endpoint, decide permitir/denegar y produce el TenantContext que consumen
// los handlers. La decisión es síncrona, pura y sin efectos: lee las
// membresías ya cargadas pero nunca las muta ni toca la base de datos.
package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// =================================================================================
// ERRORES
// =================================================================================

// ErrForbidden es la raíz de todas las denegaciones del motor.
// Cualquier error retornado por Authorize satisface errors.Is(err, ErrForbidden).
var ErrForbidden = errors.New("forbidden")

var (
	// ErrOrgRequired la operación es inherentemente org-scoped y no llegó
	// organization_id. Aplica también a platform admins: deben desambiguar.
	ErrOrgRequired = fmt.Errorf("%w: organization_id es requerido", ErrForbidden)

	// ErrNotMember el usuario no tiene membresía en la organización.
	ErrNotMember = fmt.Errorf("%w: no eres miembro de esta organización", ErrForbidden)

	// ErrMembershipInactive la membresía existe pero no está activa.
	ErrMembershipInactive = fmt.Errorf("%w: membresía no activa en esta organización", ErrForbidden)

	// ErrInsufficientRole el rol del usuario no está entre los permitidos.
	ErrInsufficientRole = fmt.Errorf("%w: rol insuficiente", ErrForbidden)
)

// insufficientRole arma el mensaje con el rol actual y los requeridos.
func insufficientRole(have types.Role, allowed []types.Role) error {
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return fmt.Errorf("%w: rol '%s' insuficiente, se requiere: %s",
		ErrInsufficientRole, have, strings.Join(names, ", "))
}

// =================================================================================
// CAPABILITY Y TENANT CONTEXT
// =================================================================================

// Capability describe lo que un endpoint exige del llamador.
type Capability struct {
	// AllowedRoles roles de organización que habilitan la operación.
	AllowedRoles []types.Role

	// OrgRequired la operación es org-scoped: sin OrgIDHint se deniega,
	// incluso para platform admins.
	OrgRequired bool

	// OrgIDHint organización objetivo, normalmente de un path o query param.
	OrgIDHint string
}

// TenantContext es el resultado de una autorización concedida.
// Se construye una vez y los consumidores lo tratan como solo lectura.
//
// Invariantes:
//   - IsPlatformAdmin true: OrganizationID puede estar vacío (alcance global)
//     y Role es el sintético "owner" (no una membresía almacenada).
//   - IsPlatformAdmin false: OrganizationID siempre presente y Role proviene
//     de una membresía activa; la ausencia de esa membresía es denegación,
//     nunca un contexto vacío.
type TenantContext struct {
	UserID          string
	OrganizationID  string // vacío = alcance global (solo platform admins)
	Role            types.Role
	IsPlatformAdmin bool
}

// Global indica si el contexto es de alcance global (sin org).
func (tc TenantContext) Global() bool { return tc.OrganizationID == "" }

// =================================================================================
// MOTOR
// =================================================================================

// Authorize decide si el principal puede actuar con la capability dada.
//
// Orden de evaluación (el orden importa y está cubierto por tests):
//  1. OrgRequired sin hint → ErrOrgRequired, sin excepción para admins.
//  2. Platform admin sin hint → contexto global con rol sintético owner.
//  3. Platform admin con hint → contexto scoped a esa org, rol sintético
//     owner, sin verificar membresía (el override es incondicional).
//  4. No admin: hint obligatorio; membresía en esa org con status active y
//     rol dentro de AllowedRoles; cualquier otra cosa deniega.
func Authorize(p types.Principal, memberships []types.Membership, c Capability) (TenantContext, error) {
	if c.OrgRequired && c.OrgIDHint == "" {
		return TenantContext{}, ErrOrgRequired
	}

	if p.IsPlatformAdmin {
		return TenantContext{
			UserID:          p.ID,
			OrganizationID:  c.OrgIDHint,
			Role:            types.RoleOwner,
			IsPlatformAdmin: true,
		}, nil
	}

	if c.OrgIDHint == "" {
		return TenantContext{}, ErrOrgRequired
	}

	var found *types.Membership
	for i := range memberships {
		if memberships[i].OrganizationID == c.OrgIDHint {
			found = &memberships[i]
			break
		}
	}
	if found == nil {
		return TenantContext{}, ErrNotMember
	}
	if found.Status != types.MembershipActive {
		return TenantContext{}, ErrMembershipInactive
	}
	if !roleAllowed(found.Role, c.AllowedRoles) {
		return TenantContext{}, insufficientRole(found.Role, c.AllowedRoles)
	}

	return TenantContext{
		UserID:          p.ID,
		OrganizationID:  found.OrganizationID,
		Role:            found.Role,
		IsPlatformAdmin: false,
	}, nil
}

// AuthorizeOrg es la variante para endpoints con org_id como path param
// obligatorio: fuerza OrgRequired y toma el hint directo del path.
func AuthorizeOrg(p types.Principal, memberships []types.Membership, orgID string, roles ...types.Role) (TenantContext, error) {
	return Authorize(p, memberships, Capability{
		AllowedRoles: roles,
		OrgRequired:  true,
		OrgIDHint:    orgID,
	})
}

// AuthorizeGlobal es la variante de "acceso global": nunca exige org.
// Los admins pueden omitir el hint para leer todos los tenants; los usuarios
// normales siguen obligados a indicar una organización.
func AuthorizeGlobal(p types.Principal, memberships []types.Membership, orgHint string, roles ...types.Role) (TenantContext, error) {
	return Authorize(p, memberships, Capability{
		AllowedRoles: roles,
		OrgRequired:  false,
		OrgIDHint:    orgHint,
	})
}

func roleAllowed(have types.Role, allowed []types.Role) bool {
	for _, r := range allowed {
		if r == have {
			return true
		}
	}
	return false
}
