package gamification

import "github.com/fsotosa-ops/oasis-backend/internal/domain/types"

// DedupeLedger filtra asientos supersedidos. El input se asume ordenado por
// created_at descendente (así lo entregan los repositorios): la primera
// ocurrencia de cada reference_id no vacío es la más reciente y es la única
// que sobrevive. Asientos sin reference_id (ajustes manuales) pasan siempre.
//
// Es idempotente: aplicarla sobre una lista ya deduplicada la deja igual.
func DedupeLedger(entries []types.LedgerEntry) []types.LedgerEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]types.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.ReferenceID != "" {
			if _, dup := seen[e.ReferenceID]; dup {
				continue
			}
			seen[e.ReferenceID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}

// TotalPoints suma los amounts del ledger contando una sola vez cada
// reference_id (el asiento más reciente). Un mismo reward o step puede
// re-otorgarse durante mantenimiento o recálculo; el asiento nuevo supersede
// al viejo sin borrar historia, y esta suma refleja solo el vigente.
func TotalPoints(entries []types.LedgerEntry) int {
	total := 0
	for _, e := range DedupeLedger(entries) {
		total += e.Amount
	}
	return total
}

// CurrentLevel retorna el nivel actual y el siguiente según los puntos.
// levels debe venir ordenado por min_points ascendente. Nil cuando el usuario
// aún no alcanza ningún nivel / no hay nivel siguiente.
func CurrentLevel(levels []types.Level, totalPoints int) (current, next *types.Level) {
	for i := range levels {
		if levels[i].MinPoints <= totalPoints {
			current = &levels[i]
		} else {
			next = &levels[i]
			break
		}
	}
	return current, next
}
