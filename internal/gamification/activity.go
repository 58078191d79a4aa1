package gamification

import "github.com/fsotosa-ops/oasis-backend/internal/domain/types"

// activityRefField indica qué campo de metadata es la clave natural de cada
// tipo de actividad; el log no tiene una columna reference_id única porque la
// clave difiere por tipo.
var activityRefField = map[string]string{
	types.ActivityProfileCompleted: "reward_id",
	types.ActivityStepCompleted:    "step_id",
	types.ActivityJourneyCompleted: "journey_id",
}

// DedupeActivities aplica al historial de actividades el mismo patrón que
// DedupeLedger, con clave compuesta (type, metadata[campo natural]). El input
// se asume más reciente primero. Actividades de tipo desconocido o sin clave
// natural en metadata pasan siempre.
func DedupeActivities(entries []types.UserActivity) []types.UserActivity {
	type key struct {
		typ string
		ref string
	}
	seen := make(map[key]struct{}, len(entries))
	out := make([]types.UserActivity, 0, len(entries))

	for _, a := range entries {
		field, known := activityRefField[a.Type]
		if !known {
			out = append(out, a)
			continue
		}
		ref, _ := a.Metadata[field].(string)
		if ref == "" {
			out = append(out, a)
			continue
		}
		k := key{typ: a.Type, ref: ref}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}
