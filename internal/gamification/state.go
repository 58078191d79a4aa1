package gamification

import (
	"context"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// StateLoader arma el UserState agregado leyendo ledger, rewards, journeys y
// niveles. Se invoca UNA vez por request; las condiciones se evalúan contra
// el snapshot resultante, nunca con lecturas propias.
type StateLoader struct {
	Ledger   repository.LedgerRepository
	Progress repository.ProgressRepository
	Catalog  repository.CatalogRepository
}

// Load construye el snapshot para el usuario. refIDs son los reference ids
// de condiciones que necesitan nombre legible en los mensajes de bloqueo.
func (sl *StateLoader) Load(ctx context.Context, userID, orgID string, refIDs []string) (UserState, error) {
	entries, err := sl.Ledger.ListByUser(ctx, userID, orgID, 0)
	if err != nil {
		return UserState{}, err
	}
	total := TotalPoints(DedupeLedger(entries))

	userRewards, err := sl.Progress.ListUserRewards(ctx, userID)
	if err != nil {
		return UserState{}, err
	}
	earned := make(map[string]struct{}, len(userRewards))
	for _, ur := range userRewards {
		earned[ur.RewardID] = struct{}{}
	}

	journeyIDs, err := sl.Progress.ListCompletedJourneyIDs(ctx, userID)
	if err != nil {
		return UserState{}, err
	}
	completed := make(map[string]struct{}, len(journeyIDs))
	for _, id := range journeyIDs {
		completed[id] = struct{}{}
	}

	levels, err := sl.Progress.ListLevels(ctx)
	if err != nil {
		return UserState{}, err
	}
	levelsByID := make(map[string]types.Level, len(levels))
	for _, l := range levels {
		levelsByID[l.ID] = l
	}

	names, err := sl.Catalog.ResolveNames(ctx, refIDs)
	if err != nil {
		return UserState{}, err
	}

	return UserState{
		TotalPoints:         total,
		EarnedRewardIDs:     earned,
		CompletedJourneyIDs: completed,
		LevelsByID:          levelsByID,
		NamesByID:           names,
	}, nil
}

// ConditionRefIDs junta los reference ids de condiciones que necesitan
// nombre legible.
func ConditionRefIDs(condSets ...[]types.UnlockCondition) []string {
	var out []string
	for _, conds := range condSets {
		for _, c := range conds {
			if c.ReferenceID != "" {
				out = append(out, c.ReferenceID)
			}
		}
	}
	return out
}
