package repository

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// LedgerRepository accede al ledger de puntos. Append-only: los asientos solo
// se actualizan desde la utilidad de recálculo.
type LedgerRepository interface {
	// ListByUser retorna asientos del usuario ordenados por created_at DESC.
	// orgID vacío = todas las organizaciones. limit <= 0 = sin límite.
	ListByUser(ctx context.Context, userID, orgID string, limit int) ([]types.LedgerEntry, error)

	// Insert agrega un asiento nuevo.
	Insert(ctx context.Context, entry types.LedgerEntry) (types.LedgerEntry, error)

	// UpdateAmountByReference actualiza el amount de los asientos con ese
	// reference_id y reason. Solo lo usa el recálculo.
	UpdateAmountByReference(ctx context.Context, referenceID, reason string, amount int) error
}

// ActivityRepository accede al historial de actividades.
type ActivityRepository interface {
	// ListByUser retorna actividades ordenadas por created_at DESC.
	ListByUser(ctx context.Context, userID, orgID string, limit int) ([]types.UserActivity, error)

	// Insert agrega una actividad nueva.
	Insert(ctx context.Context, activity types.UserActivity) (types.UserActivity, error)
}

// ProgressRepository agrupa las lecturas necesarias para construir el estado
// agregado del usuario (una sola vez por evaluación, no por condición).
type ProgressRepository interface {
	// ListUserRewards retorna los grants del usuario, más recientes primero.
	ListUserRewards(ctx context.Context, userID string) ([]types.UserReward, error)

	// ListCompletedJourneyIDs retorna ids de journeys con enrollment completado.
	ListCompletedJourneyIDs(ctx context.Context, userID string) ([]string, error)

	// ListLevels retorna todos los niveles ordenados por min_points ASC.
	ListLevels(ctx context.Context) ([]types.Level, error)
}

// RecalcRepository agrupa las operaciones de la utilidad de recálculo.
type RecalcRepository interface {
	// GetConfig retorna la configuración de gamificación de la org.
	// ErrNotFound si la org no tiene configuración.
	GetConfig(ctx context.Context, orgID string) (types.GamificationConfig, error)

	// GetJourney retorna un journey por id con su org dueña.
	// ErrNotFound si no existe.
	GetJourney(ctx context.Context, journeyID string) (types.Journey, error)

	// ListJourneyIDs retorna los journeys de la org; journeyID no vacío
	// restringe a ese journey.
	ListJourneyIDs(ctx context.Context, orgID, journeyID string) ([]string, error)

	// ListSteps retorna los steps de los journeys dados.
	ListSteps(ctx context.Context, journeyIDs []string) ([]types.Step, error)

	// ListCompletions retorna las completions de los steps dados.
	ListCompletions(ctx context.Context, stepIDs []string) ([]types.StepCompletion, error)

	// UpdateCompletionPoints actualiza los puntos de una completion.
	UpdateCompletionPoints(ctx context.Context, completionID string, points int) error
}

// StepRepository accede a steps y completions para el endpoint de completar.
type StepRepository interface {
	// GetStep retorna un step por id, con la org dueña de su journey
	// ya resuelta. ErrNotFound si no existe.
	GetStep(ctx context.Context, stepID string) (types.Step, error)

	// InsertCompletion registra la completion. ErrConflict si ya existe
	// (unique user_id+step_id).
	InsertCompletion(ctx context.Context, c types.StepCompletion) (types.StepCompletion, error)
}
