package types

import "time"

// =================================================================================
// PUNTOS Y ACTIVIDADES
// =================================================================================

// LedgerEntry es un asiento append-only del ledger de puntos.
// Los asientos con el mismo ReferenceID no nulo son reemisiones del mismo
// grant: solo el más reciente (CreatedAt) cuenta para el total.
// ReferenceID vacío = ajuste manual, siempre cuenta.
type LedgerEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Amount         int       `json:"amount"`
	Reason         string    `json:"reason"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Razones conocidas del ledger.
const (
	ReasonStepCompleted     = "step_completed"
	ReasonJourneyCompleted  = "journey_completed"
	ReasonProfileCompletion = "profile_completion"
	ReasonManualAdjustment  = "manual_adjustment"
)

// UserActivity es una entrada del historial de actividades del usuario.
type UserActivity struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	OrganizationID string         `json:"organization_id,omitempty"`
	Type           string         `json:"type"`
	PointsAwarded  int            `json:"points_awarded"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Tipos conocidos de actividad.
const (
	ActivityProfileCompleted = "profile_completed"
	ActivityStepCompleted    = "step_completed"
	ActivityJourneyCompleted = "journey_completed"
)

// Level es un nivel del sistema de gamificación, ordenado por MinPoints.
type Level struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// GamificationConfig es la configuración de puntos de una organización.
type GamificationConfig struct {
	OrganizationID    string  `json:"organization_id"`
	PointsMultiplier  float64 `json:"points_multiplier"`
	DefaultStepPoints int     `json:"default_step_points"`
}

// =================================================================================
// JOURNEYS Y STEPS (solo lo que el core necesita leer)
// =================================================================================

// Journey agrupa steps bajo una organización.
type Journey struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Title          string `json:"title"`
}

// Step es un paso de un journey con sus puntos base.
// OrganizationID es la org dueña del journey: los repositorios lo resuelven
// vía join para que el servicio valide pertenencia antes de otorgar puntos.
// BasePoints nil indica que el step no define puntos propios y aplica el
// default de la organización.
type Step struct {
	ID             string `json:"id"`
	JourneyID      string `json:"journey_id"`
	OrganizationID string `json:"organization_id"`
	Title          string `json:"title"`
	BasePoints     *int   `json:"base_points,omitempty"`
}

// StepCompletion registra que un usuario completó un step.
type StepCompletion struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	StepID       string    `json:"step_id"`
	PointsEarned int       `json:"points_earned"`
	CompletedAt  time.Time `json:"completed_at"`
}
