package types

// Principal es el llamador autenticado de un request.
// Lo construye el Identity Resolver una sola vez por request a partir del
// token verificado; es inmutable desde ese momento y nunca se persiste.
//
// IsPlatformAdmin se resuelve en el momento de la verificación del token
// (claim de metadata tipada), no se rederiva en cada punto de autorización.
type Principal struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	IsPlatformAdmin bool           `json:"is_platform_admin"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}
