package identity

import (
	"context"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// leeway tolera pequeños desfases de reloj entre el proveedor y este servicio.
const leeway = 30 * time.Second

// adminRoleClaim es la claim de app_metadata que marca a un platform admin.
const adminRoleClaim = "platform_admin"

// JWTVerifier valida tokens HS256 firmados por el proveedor de identidad
// con un secreto compartido.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTVerifier crea un verifier. issuer y audience son opcionales; si se
// pasan vacíos no se validan.
func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

// Verify valida firma, exp/nbf (con tolerancia), iss y aud, y construye el
// Principal. El flag de admin se resuelve UNA vez aquí, desde app_metadata;
// nadie más vuelve a mirar las claims crudas.
func (v *JWTVerifier) Verify(_ context.Context, rawToken string) (types.Principal, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithLeeway(leeway),
		jwtv5.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwtv5.WithAudience(v.audience))
	}

	tok, err := jwtv5.Parse(rawToken, func(t *jwtv5.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return types.Principal{}, fmt.Errorf("%w: token inválido", ErrUnauthorized)
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return types.Principal{}, fmt.Errorf("%w: claims ilegibles", ErrUnauthorized)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return types.Principal{}, fmt.Errorf("%w: token sin subject", ErrUnauthorized)
	}
	email, _ := claims["email"].(string)

	meta, _ := claims["app_metadata"].(map[string]any)

	return types.Principal{
		ID:              sub,
		Email:           email,
		IsPlatformAdmin: isPlatformAdmin(meta),
		Metadata:        meta,
	}, nil
}

// isPlatformAdmin acepta las dos formas en que el proveedor serializa el
// flag: booleano directo o rol plano dentro de roles.
func isPlatformAdmin(meta map[string]any) bool {
	if meta == nil {
		return false
	}
	if b, ok := meta[adminRoleClaim].(bool); ok && b {
		return true
	}
	if roles, ok := meta["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && s == adminRoleClaim {
				return true
			}
		}
	}
	return false
}
