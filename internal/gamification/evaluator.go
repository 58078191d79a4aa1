// Package gamification contiene la lógica pura de gamificación: evaluación
// de condiciones de desbloqueo, agregación del ledger de puntos y
// deduplicación de actividades. Salvo el Recalculator y el StateLoader,
// nada aquí hace I/O; el estado agregado del usuario se construye una sola
// vez por evaluación y se descarta al terminar el request.
package gamification

import (
	"fmt"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// UserState es el estado agregado precomputado contra el que se evalúan las
// condiciones. Se arma una vez por evaluación para no repetir lecturas por
// condición.
type UserState struct {
	TotalPoints         int
	EarnedRewardIDs     map[string]struct{}
	CompletedJourneyIDs map[string]struct{}
	LevelsByID          map[string]types.Level

	// NamesByID resuelve reference ids (rewards, journeys) a nombre legible
	// para los mensajes de bloqueo. Un id ausente se reporta como
	// "desconocido", nunca rompe la evaluación.
	NamesByID map[string]string
}

// Unlockable es lo que el evaluador necesita de un item del catálogo.
type Unlockable struct {
	Logic      types.UnlockLogic
	Conditions []types.UnlockCondition
}

// EvaluateUnlock decide si el item está desbloqueado para el estado dado y
// enumera las razones de bloqueo legibles.
//
// Es pura y total: nunca falla para un item bien formado. Lista de
// condiciones vacía = desbloqueado trivialmente. AND exige todas las
// condiciones (acumula todas las razones fallidas); OR exige al menos una y,
// si desbloquea, descarta las razones parciales: las razones existen solo
// para explicar por qué algo sigue bloqueado.
func EvaluateUnlock(item Unlockable, state UserState) (bool, []string) {
	if len(item.Conditions) == 0 {
		return true, nil
	}

	met := 0
	var reasons []string
	for _, cond := range item.Conditions {
		ok, reason := evaluateCondition(cond, state)
		if ok {
			met++
		} else if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	unlocked := met == len(item.Conditions)
	if item.Logic == types.UnlockOR {
		unlocked = met > 0
	}
	if unlocked {
		return true, nil
	}
	return false, reasons
}

// evaluateCondition evalúa una condición contra el estado agregado.
func evaluateCondition(cond types.UnlockCondition, state UserState) (bool, string) {
	switch cond.Type {
	case types.CondPointsThreshold:
		if state.TotalPoints >= cond.ReferenceValue {
			return true, ""
		}
		diff := cond.ReferenceValue - state.TotalPoints
		return false, fmt.Sprintf("Te faltan %d puntos para desbloquear", diff)

	case types.CondLevelRequired:
		if cond.ReferenceID == "" {
			return true, ""
		}
		lvl, ok := state.LevelsByID[cond.ReferenceID]
		if !ok {
			// Nivel no resoluble: rama permisiva explícita.
			return condUnknownUnlocked()
		}
		if state.TotalPoints >= lvl.MinPoints {
			return true, ""
		}
		return false, fmt.Sprintf("Necesitas alcanzar el nivel %s", lvl.Name)

	case types.CondRewardRequired:
		if cond.ReferenceID == "" {
			return true, ""
		}
		if _, ok := state.EarnedRewardIDs[cond.ReferenceID]; ok {
			return true, ""
		}
		return false, fmt.Sprintf("Necesitas obtener el badge %s", state.displayName(cond.ReferenceID))

	case types.CondJourneyCompleted:
		if cond.ReferenceID == "" {
			return true, ""
		}
		if _, ok := state.CompletedJourneyIDs[cond.ReferenceID]; ok {
			return true, ""
		}
		return false, fmt.Sprintf("Completa el Journey %s para desbloquear", state.displayName(cond.ReferenceID))
	}

	// Tipo de condición no reconocido: rama permisiva explícita.
	return condUnknownUnlocked()
}

// condUnknownUnlocked es la política fail-open para condiciones no
// reconocidas o con referencias no resolubles. Deliberadamente permisiva
// para compatibilidad hacia adelante con nuevos tipos de condición; los
// tests la cubren para que un cambio de política sea una decisión y no un
// accidente.
func condUnknownUnlocked() (bool, string) {
	return true, ""
}

func (s UserState) displayName(id string) string {
	if name, ok := s.NamesByID[id]; ok && name != "" {
		return name
	}
	return "desconocido"
}
