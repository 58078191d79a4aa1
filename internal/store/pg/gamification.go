package pg

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

type (
	LedgerStore   struct{ pool *pgxpool.Pool }
	ActivityStore struct{ pool *pgxpool.Pool }
	ProgressStore struct{ pool *pgxpool.Pool }
	RecalcStore   struct{ pool *pgxpool.Pool }
	StepStore     struct{ pool *pgxpool.Pool }
)

func (s *Store) Ledger() *LedgerStore       { return &LedgerStore{pool: s.pool} }
func (s *Store) Activities() *ActivityStore { return &ActivityStore{pool: s.pool} }
func (s *Store) Progress() *ProgressStore   { return &ProgressStore{pool: s.pool} }
func (s *Store) Recalc() *RecalcStore       { return &RecalcStore{pool: s.pool} }
func (s *Store) Steps() *StepStore          { return &StepStore{pool: s.pool} }

var (
	_ repository.LedgerRepository   = (*LedgerStore)(nil)
	_ repository.ActivityRepository = (*ActivityStore)(nil)
	_ repository.ProgressRepository = (*ProgressStore)(nil)
	_ repository.RecalcRepository   = (*RecalcStore)(nil)
	_ repository.StepRepository     = (*StepStore)(nil)
)

// ====================== LEDGER ======================

// ListByUser devuelve los asientos del usuario, más recientes primero.
// El orden DESC es contrato: el deduplicador asume newest-first.
func (s *LedgerStore) ListByUser(ctx context.Context, userID, orgID string, limit int) ([]types.LedgerEntry, error) {
	q := `
SELECT id, user_id, COALESCE(organization_id::text, ''), amount, reason, COALESCE(reference_id::text, ''), created_at
FROM points_ledger
WHERE user_id = $1`
	args := []any{userID}
	if orgID != "" {
		q += ` AND organization_id = $2`
		args = append(args, orgID)
	}
	q += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.LedgerEntry
	for rows.Next() {
		var e types.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrganizationID, &e.Amount, &e.Reason, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

func (s *LedgerStore) Insert(ctx context.Context, entry types.LedgerEntry) (types.LedgerEntry, error) {
	const q = `
INSERT INTO points_ledger (id, user_id, organization_id, amount, reason, reference_id)
VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, NULLIF($6, '')::uuid)
RETURNING created_at`
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, q,
		entry.ID, entry.UserID, entry.OrganizationID, entry.Amount, entry.Reason, entry.ReferenceID).
		Scan(&entry.CreatedAt)
	if err != nil {
		return types.LedgerEntry{}, mapErr(err)
	}
	return entry, nil
}

func (s *LedgerStore) UpdateAmountByReference(ctx context.Context, referenceID, reason string, amount int) error {
	const q = `
UPDATE points_ledger
SET amount = $3
WHERE reference_id = $1 AND reason = $2`
	_, err := s.pool.Exec(ctx, q, referenceID, reason, amount)
	return mapErr(err)
}

// ====================== ACTIVIDADES ======================

func (s *ActivityStore) ListByUser(ctx context.Context, userID, orgID string, limit int) ([]types.UserActivity, error) {
	q := `
SELECT id, user_id, COALESCE(organization_id::text, ''), activity_type, points_awarded, COALESCE(metadata, '{}'::jsonb), created_at
FROM user_activity
WHERE user_id = $1`
	args := []any{userID}
	if orgID != "" {
		q += ` AND organization_id = $2`
		args = append(args, orgID)
	}
	q += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.UserActivity
	for rows.Next() {
		var a types.UserActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.OrganizationID, &a.Type, &a.PointsAwarded, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

func (s *ActivityStore) Insert(ctx context.Context, a types.UserActivity) (types.UserActivity, error) {
	const q = `
INSERT INTO user_activity (id, user_id, organization_id, activity_type, points_awarded, metadata)
VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
RETURNING created_at`
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	err := s.pool.QueryRow(ctx, q,
		a.ID, a.UserID, a.OrganizationID, a.Type, a.PointsAwarded, a.Metadata).
		Scan(&a.CreatedAt)
	if err != nil {
		return types.UserActivity{}, mapErr(err)
	}
	return a, nil
}

// ====================== PROGRESO ======================

func (s *ProgressStore) ListUserRewards(ctx context.Context, userID string) ([]types.UserReward, error) {
	const q = `
SELECT ur.id, ur.user_id, ur.reward_id, ur.earned_at, r.id, r.name, COALESCE(r.description, ''), r.points, r.created_at
FROM user_reward ur
JOIN reward r ON r.id = ur.reward_id
WHERE ur.user_id = $1
ORDER BY ur.earned_at DESC;`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.UserReward
	for rows.Next() {
		var ur types.UserReward
		var r types.Reward
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.RewardID, &ur.EarnedAt,
			&r.ID, &r.Name, &r.Description, &r.Points, &r.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		ur.Reward = &r
		out = append(out, ur)
	}
	return out, mapErr(rows.Err())
}

func (s *ProgressStore) ListCompletedJourneyIDs(ctx context.Context, userID string) ([]string, error) {
	const q = `
SELECT journey_id::text
FROM journey_enrollment
WHERE user_id = $1 AND status = 'completed';`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, id)
	}
	return out, mapErr(rows.Err())
}

// ListLevels devuelve los niveles en orden ascendente por min_points.
// El orden ASC es contrato: el cálculo de nivel actual lo asume.
func (s *ProgressStore) ListLevels(ctx context.Context) ([]types.Level, error) {
	const q = `
SELECT id, name, min_points
FROM level
ORDER BY min_points ASC;`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Level
	for rows.Next() {
		var l types.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.MinPoints); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err())
}

// ====================== RECÁLCULO ======================

func (s *RecalcStore) GetConfig(ctx context.Context, orgID string) (types.GamificationConfig, error) {
	const q = `
SELECT organization_id, points_multiplier, default_step_points
FROM gamification_config
WHERE organization_id = $1
LIMIT 1`
	var cfg types.GamificationConfig
	err := s.pool.QueryRow(ctx, q, orgID).
		Scan(&cfg.OrganizationID, &cfg.PointsMultiplier, &cfg.DefaultStepPoints)
	if err != nil {
		return types.GamificationConfig{}, mapErr(err)
	}
	return cfg, nil
}

func (s *RecalcStore) GetJourney(ctx context.Context, journeyID string) (types.Journey, error) {
	const q = `
SELECT id, organization_id, title
FROM journey
WHERE id = $1
LIMIT 1`
	var j types.Journey
	err := s.pool.QueryRow(ctx, q, journeyID).Scan(&j.ID, &j.OrganizationID, &j.Title)
	if err != nil {
		return types.Journey{}, mapErr(err)
	}
	return j, nil
}

func (s *RecalcStore) ListJourneyIDs(ctx context.Context, orgID, journeyID string) ([]string, error) {
	q := `
SELECT id::text
FROM journey
WHERE organization_id = $1`
	args := []any{orgID}
	if journeyID != "" {
		q += ` AND id = $2`
		args = append(args, journeyID)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, id)
	}
	return out, mapErr(rows.Err())
}

func (s *RecalcStore) ListSteps(ctx context.Context, journeyIDs []string) ([]types.Step, error) {
	if len(journeyIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT id, journey_id, title, base_points
FROM journey_step
WHERE journey_id = ANY($1);`
	rows, err := s.pool.Query(ctx, q, journeyIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.Step
	for rows.Next() {
		var st types.Step
		if err := rows.Scan(&st.ID, &st.JourneyID, &st.Title, &st.BasePoints); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, st)
	}
	return out, mapErr(rows.Err())
}

func (s *RecalcStore) ListCompletions(ctx context.Context, stepIDs []string) ([]types.StepCompletion, error) {
	if len(stepIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT id, user_id, step_id, points_earned, completed_at
FROM step_completion
WHERE step_id = ANY($1);`
	rows, err := s.pool.Query(ctx, q, stepIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []types.StepCompletion
	for rows.Next() {
		var c types.StepCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.StepID, &c.PointsEarned, &c.CompletedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

func (s *RecalcStore) UpdateCompletionPoints(ctx context.Context, completionID string, points int) error {
	const q = `UPDATE step_completion SET points_earned = $2 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, completionID, points)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ====================== STEPS ======================

// GetStep resuelve también la org dueña del journey: el servicio la usa
// para rechazar completions de steps ajenos a la org autorizada.
func (s *StepStore) GetStep(ctx context.Context, stepID string) (types.Step, error) {
	const q = `
SELECT s.id, s.journey_id, j.organization_id, s.title, s.base_points
FROM journey_step s
JOIN journey j ON j.id = s.journey_id
WHERE s.id = $1
LIMIT 1`
	var st types.Step
	err := s.pool.QueryRow(ctx, q, stepID).
		Scan(&st.ID, &st.JourneyID, &st.OrganizationID, &st.Title, &st.BasePoints)
	if err != nil {
		return types.Step{}, mapErr(err)
	}
	return st, nil
}

// InsertCompletion registra la completion. La unique (user_id, step_id) hace
// que un segundo intento salga como ErrConflict, no como doble asiento.
func (s *StepStore) InsertCompletion(ctx context.Context, c types.StepCompletion) (types.StepCompletion, error) {
	const q = `
INSERT INTO step_completion (id, user_id, step_id, points_earned)
VALUES ($1, $2, $3, $4)
RETURNING completed_at`
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, q, c.ID, c.UserID, c.StepID, c.PointsEarned).Scan(&c.CompletedAt)
	if err != nil {
		return types.StepCompletion{}, mapErr(err)
	}
	return c, nil
}
