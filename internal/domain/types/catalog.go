package types

import "time"

// =================================================================================
// CATÁLOGO DESBLOQUEABLE (rewards y resources)
// =================================================================================

// ConditionType es el tipo de una condición de desbloqueo.
type ConditionType string

const (
	CondPointsThreshold  ConditionType = "points_threshold"
	CondLevelRequired    ConditionType = "level_required"
	CondRewardRequired   ConditionType = "reward_required"
	CondJourneyCompleted ConditionType = "journey_completed"
)

// UnlockCondition es un predicado tipado que bloquea un item del catálogo.
// ReferenceValue aplica a points_threshold; ReferenceID al resto.
type UnlockCondition struct {
	Type           ConditionType `json:"condition_type"`
	ReferenceValue int           `json:"reference_value,omitempty"`
	ReferenceID    string        `json:"reference_id,omitempty"`
}

// UnlockLogic combina las condiciones de un item.
type UnlockLogic string

const (
	UnlockAND UnlockLogic = "AND"
	UnlockOR  UnlockLogic = "OR"
)

// Reward es un item del catálogo de recompensas (badge).
type Reward struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Points           int               `json:"points"`
	UnlockLogic      UnlockLogic       `json:"unlock_logic"`
	UnlockConditions []UnlockCondition `json:"unlock_conditions,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Resource es un recurso descargable/consumible gateado por condiciones.
type Resource struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	UnlockLogic      UnlockLogic       `json:"unlock_logic"`
	UnlockConditions []UnlockCondition `json:"unlock_conditions,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// UserReward es un grant de reward a un usuario.
type UserReward struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	RewardID string    `json:"reward_id"`
	EarnedAt time.Time `json:"earned_at"`
	Reward   *Reward   `json:"reward,omitempty"`
}
