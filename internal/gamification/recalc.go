package gamification

import (
	"context"
	"math"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// Recalculator es la utilidad de mantenimiento que realinea los puntos de
// step completions existentes con los base_points vigentes de cada step y el
// multiplicador de la organización. Es la única pieza del paquete que hace
// I/O y la única autorizada a actualizar asientos del ledger.
type Recalculator struct {
	Repo   repository.RecalcRepository
	Ledger repository.LedgerRepository
}

// Valores cuando la org no tiene configuración propia.
const (
	defaultMultiplier = 1.0
	defaultStepPoints = 10
)

// Run recalcula los puntos de la organización; journeyID no vacío restringe
// a un journey. Retorna cuántas completions fueron actualizadas.
func (rc *Recalculator) Run(ctx context.Context, orgID, journeyID string) (int, error) {
	log := logger.From(ctx).With(
		logger.Component("gamification.recalc"),
		logger.String("org_id", orgID),
	)

	multiplier := defaultMultiplier
	stepDefault := defaultStepPoints
	cfg, err := rc.Repo.GetConfig(ctx, orgID)
	switch {
	case err == nil:
		if cfg.PointsMultiplier > 0 {
			multiplier = cfg.PointsMultiplier
		}
		if cfg.DefaultStepPoints > 0 {
			stepDefault = cfg.DefaultStepPoints
		}
	case repository.IsNotFound(err):
		// Sin config: defaults.
	default:
		return 0, err
	}

	journeyIDs, err := rc.Repo.ListJourneyIDs(ctx, orgID, journeyID)
	if err != nil {
		return 0, err
	}
	if len(journeyIDs) == 0 {
		return 0, nil
	}

	steps, err := rc.Repo.ListSteps(ctx, journeyIDs)
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, nil
	}

	// step id → puntos vigentes
	stepPoints := make(map[string]int, len(steps))
	stepIDs := make([]string, 0, len(steps))
	for _, s := range steps {
		base := stepDefault
		if s.BasePoints != nil {
			base = *s.BasePoints
		}
		stepPoints[s.ID] = int(math.Round(float64(base) * multiplier))
		stepIDs = append(stepIDs, s.ID)
	}

	completions, err := rc.Repo.ListCompletions(ctx, stepIDs)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, comp := range completions {
		want := stepPoints[comp.StepID]
		if comp.PointsEarned == want {
			continue
		}
		if err := rc.Repo.UpdateCompletionPoints(ctx, comp.ID, want); err != nil {
			return updated, err
		}
		// El asiento del ledger referencia la completion; lo realineamos.
		if err := rc.Ledger.UpdateAmountByReference(ctx, comp.ID, types.ReasonStepCompleted, want); err != nil {
			return updated, err
		}
		updated++
	}

	log.Info("recalculation finished", logger.Count(updated))
	return updated, nil
}
