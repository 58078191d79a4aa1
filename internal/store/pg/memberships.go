package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

type MembershipStore struct{ pool *pgxpool.Pool }

// Memberships devuelve el repositorio de membresías sobre el pool compartido.
func (s *Store) Memberships() *MembershipStore { return &MembershipStore{pool: s.pool} }

// Compile-time check: confirma que el adapter satisface la interfaz.
var _ repository.MembershipRepository = (*MembershipStore)(nil)

// ListByUser devuelve TODAS las membresías del usuario, sin filtrar por
// estado. El motor de autorización decide qué hacer con las no activas.
func (s *MembershipStore) ListByUser(ctx context.Context, userID string) ([]types.Membership, error) {
	const q = `
SELECT m.id, m.user_id, m.organization_id, m.role, m.status, m.joined_at
FROM organization_member m
WHERE m.user_id = $1
ORDER BY m.joined_at;`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Membership
	for rows.Next() {
		var m types.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

// ListActiveByUser devuelve las membresías activas con la organización
// embebida (para el listado "mis organizaciones").
func (s *MembershipStore) ListActiveByUser(ctx context.Context, userID string) ([]types.Membership, error) {
	const q = `
SELECT m.id, m.user_id, m.organization_id, m.role, m.status, m.joined_at,
       o.id, o.name, o.slug, COALESCE(o.org_type, '')
FROM organization_member m
JOIN organization o ON o.id = m.organization_id
WHERE m.user_id = $1 AND m.status = 'active'
ORDER BY o.name;`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Membership
	for rows.Next() {
		var m types.Membership
		var o types.Organization
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Role, &m.Status, &m.JoinedAt,
			&o.ID, &o.Name, &o.Slug, &o.Type); err != nil {
			return nil, mapErr(err)
		}
		m.Organization = &o
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

// ListByOrganization devuelve los miembros de una organización.
func (s *MembershipStore) ListByOrganization(ctx context.Context, orgID string) ([]types.Membership, error) {
	const q = `
SELECT m.id, m.user_id, m.organization_id, m.role, m.status, m.joined_at
FROM organization_member m
WHERE m.organization_id = $1
ORDER BY m.joined_at;`
	rows, err := s.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Membership
	for rows.Next() {
		var m types.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}
