package authz

import (
	"errors"
	"fmt"
)

// ErrNotOwner la entidad cargada no pertenece al llamador ni a su organización.
var ErrNotOwner = fmt.Errorf("%w: la entidad no pertenece al llamador", ErrForbidden)

// AuthorizeOwner es la segunda fase del patrón fetch-then-authorize: el
// handler carga la entidad (load(id) -> entity | NotFound) y después valida
// la propiedad contra el TenantContext con esta función pura.
//
// Reglas:
//   - Platform admins pasan siempre.
//   - El dueño directo (ownerUserID) pasa.
//   - Cualquier miembro pasa si la entidad pertenece a la org del contexto
//     y el contexto tiene rol admin u owner.
func AuthorizeOwner(tc TenantContext, ownerUserID, ownerOrgID string) error {
	if tc.IsPlatformAdmin {
		return nil
	}
	if ownerUserID != "" && ownerUserID == tc.UserID {
		return nil
	}
	if ownerOrgID != "" && ownerOrgID == tc.OrganizationID && tc.Role.CanManageOrg() {
		return nil
	}
	return ErrNotOwner
}

// IsForbidden verifica si un error proviene de una denegación del motor.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
