package pg

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

type CatalogStore struct{ pool *pgxpool.Pool }

func (s *Store) Catalog() *CatalogStore { return &CatalogStore{pool: s.pool} }

var _ repository.CatalogRepository = (*CatalogStore)(nil)

// Las condiciones viven como JSONB en la fila del item; se decodifican acá
// para que el resto del sistema trabaje con structs tipados.

func (s *CatalogStore) ListRewards(ctx context.Context, orgID string) ([]types.Reward, error) {
	q := `
SELECT id, name, COALESCE(description, ''), points, COALESCE(unlock_logic, 'AND'), COALESCE(unlock_conditions, '[]'::jsonb), created_at
FROM reward`
	var args []any
	if orgID != "" {
		q += ` WHERE organization_id IS NULL OR organization_id = $1`
		args = append(args, orgID)
	}
	q += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Reward
	for rows.Next() {
		var r types.Reward
		var condsRaw []byte
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Points, &r.UnlockLogic, &condsRaw, &r.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		if err := json.Unmarshal(condsRaw, &r.UnlockConditions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}

func (s *CatalogStore) GetReward(ctx context.Context, rewardID string) (types.Reward, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), points, COALESCE(unlock_logic, 'AND'), COALESCE(unlock_conditions, '[]'::jsonb), created_at
FROM reward
WHERE id = $1
LIMIT 1`
	var r types.Reward
	var condsRaw []byte
	err := s.pool.QueryRow(ctx, q, rewardID).
		Scan(&r.ID, &r.Name, &r.Description, &r.Points, &r.UnlockLogic, &condsRaw, &r.CreatedAt)
	if err != nil {
		return types.Reward{}, mapErr(err)
	}
	if err := json.Unmarshal(condsRaw, &r.UnlockConditions); err != nil {
		return types.Reward{}, err
	}
	return r, nil
}

func (s *CatalogStore) ListResources(ctx context.Context, orgID string) ([]types.Resource, error) {
	q := `
SELECT id, title, COALESCE(description, ''), COALESCE(unlock_logic, 'AND'), COALESCE(unlock_conditions, '[]'::jsonb), created_at
FROM resource`
	var args []any
	if orgID != "" {
		q += ` WHERE organization_id IS NULL OR organization_id = $1`
		args = append(args, orgID)
	}
	q += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Resource
	for rows.Next() {
		var r types.Resource
		var condsRaw []byte
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.UnlockLogic, &condsRaw, &r.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		if err := json.Unmarshal(condsRaw, &r.UnlockConditions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}

// ResolveNames devuelve nombre legible por id para rewards y journeys.
// Ids desconocidos simplemente no aparecen en el mapa. Se compara por
// id::text: las conditions traen reference_id libre y un valor que no sea
// UUID no debe reventar el query, solo quedar sin resolver.
func (s *CatalogStore) ResolveNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const q = `
SELECT id::text, name FROM reward WHERE id::text = ANY($1)
UNION ALL
SELECT id::text, title FROM journey WHERE id::text = ANY($1);`
	rows, err := s.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapErr(err)
		}
		out[id] = name
	}
	return out, mapErr(rows.Err())
}
