// Package gamification define los DTOs del progreso, ledger y catálogo.
package gamification

import (
	"time"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// Progress es el resumen de progreso del usuario.
type Progress struct {
	TotalPoints       int          `json:"total_points"`
	CurrentLevel      *types.Level `json:"current_level,omitempty"`
	NextLevel         *types.Level `json:"next_level,omitempty"`
	PointsToNextLevel int          `json:"points_to_next_level"`
	RewardsEarned     int          `json:"rewards_earned"`
	JourneysCompleted int          `json:"journeys_completed"`

	// RecentActivities es el historial reciente ya deduplicado por clave
	// natural de cada tipo de actividad.
	RecentActivities []types.UserActivity `json:"recent_activities"`
}

// Ledger es la vista deduplicada del ledger de puntos.
type Ledger struct {
	Entries     []types.LedgerEntry `json:"entries"`
	TotalPoints int                 `json:"total_points"`
}

// RewardStatus es un reward del catálogo con su estado de desbloqueo para
// el usuario. LockedReasons solo viene cuando Unlocked es false.
type RewardStatus struct {
	types.Reward
	Earned        bool     `json:"earned"`
	Unlocked      bool     `json:"unlocked"`
	LockedReasons []string `json:"locked_reasons,omitempty"`
}

// ResourceStatus es un resource con su estado de desbloqueo.
type ResourceStatus struct {
	types.Resource
	Unlocked      bool     `json:"unlocked"`
	LockedReasons []string `json:"locked_reasons,omitempty"`
}

// StepCompleted es la respuesta al completar un step.
type StepCompleted struct {
	CompletionID  string    `json:"completion_id"`
	StepID        string    `json:"step_id"`
	PointsAwarded int       `json:"points_awarded"`
	CompletedAt   time.Time `json:"completed_at"`
}

// RecalcRequest es el body del recálculo administrativo.
type RecalcRequest struct {
	JourneyID string `json:"journey_id,omitempty"`
}

// RecalcResult reporta el resultado del recálculo.
type RecalcResult struct {
	UpdatedCompletions int `json:"updated_completions"`
}
