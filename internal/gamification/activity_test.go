package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

func activity(typ string, meta map[string]any, age time.Duration) types.UserActivity {
	return types.UserActivity{
		UserID:    "u1",
		Type:      typ,
		Metadata:  meta,
		CreatedAt: t0.Add(-age),
	}
}

func TestDedupeActivities_ClavePorTipo(t *testing.T) {
	entries := []types.UserActivity{
		activity(types.ActivityStepCompleted, map[string]any{"step_id": "s1"}, 0),
		activity(types.ActivityStepCompleted, map[string]any{"step_id": "s1"}, time.Hour),
		activity(types.ActivityStepCompleted, map[string]any{"step_id": "s2"}, 2*time.Hour),
		activity(types.ActivityJourneyCompleted, map[string]any{"journey_id": "j1"}, 3*time.Hour),
		activity(types.ActivityJourneyCompleted, map[string]any{"journey_id": "j1"}, 4*time.Hour),
		activity(types.ActivityProfileCompleted, map[string]any{"reward_id": "r1"}, 5*time.Hour),
	}
	out := DedupeActivities(entries)
	require.Len(t, out, 4)
}

// La misma clave natural bajo tipos distintos no colisiona.
func TestDedupeActivities_TiposNoColisionan(t *testing.T) {
	entries := []types.UserActivity{
		activity(types.ActivityStepCompleted, map[string]any{"step_id": "x"}, 0),
		activity(types.ActivityJourneyCompleted, map[string]any{"journey_id": "x"}, time.Hour),
	}
	require.Len(t, DedupeActivities(entries), 2)
}

func TestDedupeActivities_SinClaveNaturalPasa(t *testing.T) {
	entries := []types.UserActivity{
		activity(types.ActivityStepCompleted, nil, 0),
		activity(types.ActivityStepCompleted, map[string]any{}, time.Hour),
		activity("custom_event", map[string]any{"whatever": "v"}, 2*time.Hour),
		activity("custom_event", map[string]any{"whatever": "v"}, 3*time.Hour),
	}
	// Nada tiene clave natural conocida: todo pasa.
	require.Len(t, DedupeActivities(entries), 4)
}
