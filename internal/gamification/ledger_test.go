package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(amount int, ref string, age time.Duration) types.LedgerEntry {
	return types.LedgerEntry{
		UserID:      "u1",
		Amount:      amount,
		Reason:      types.ReasonStepCompleted,
		ReferenceID: ref,
		CreatedAt:   t0.Add(-age),
	}
}

// Escenario 4: dos asientos con el mismo reference_id, cuenta solo el más
// reciente.
func TestTotalPoints_DedupePorReferencia(t *testing.T) {
	entries := []types.LedgerEntry{
		entry(25, "r1", 0),          // T2, vigente
		entry(10, "r1", time.Hour),  // T1, supersedido
	}
	require.Equal(t, 25, TotalPoints(entries))
}

func TestTotalPoints_SinReferenciaSiempreCuenta(t *testing.T) {
	entries := []types.LedgerEntry{
		entry(25, "r1", 0),
		entry(10, "r1", time.Hour),
		entry(5, "", 2*time.Hour),  // ajuste manual
		entry(-3, "", 3*time.Hour), // corrección manual negativa
	}
	require.Equal(t, 27, TotalPoints(entries))
}

func TestTotalPoints_Vacio(t *testing.T) {
	require.Equal(t, 0, TotalPoints(nil))
	require.Equal(t, 0, TotalPoints([]types.LedgerEntry{}))
}

func TestDedupeLedger_Idempotente(t *testing.T) {
	entries := []types.LedgerEntry{
		entry(25, "r1", 0),
		entry(10, "r1", time.Hour),
		entry(40, "r2", 2*time.Hour),
		entry(5, "", 3*time.Hour),
	}
	once := DedupeLedger(entries)
	twice := DedupeLedger(once)
	require.Equal(t, once, twice)
	require.Len(t, once, 3)
}

func TestDedupeLedger_ConservaOrden(t *testing.T) {
	entries := []types.LedgerEntry{
		entry(1, "a", 0),
		entry(2, "b", time.Hour),
		entry(3, "a", 2*time.Hour),
		entry(4, "c", 3*time.Hour),
	}
	out := DedupeLedger(entries)
	require.Len(t, out, 3)
	require.Equal(t, "a", out[0].ReferenceID)
	require.Equal(t, "b", out[1].ReferenceID)
	require.Equal(t, "c", out[2].ReferenceID)
}

func TestCurrentLevel(t *testing.T) {
	levels := []types.Level{
		{ID: "l1", Name: "Inicial", MinPoints: 0},
		{ID: "l2", Name: "Explorador", MinPoints: 100},
		{ID: "l3", Name: "Experto", MinPoints: 500},
	}

	cur, next := CurrentLevel(levels, 150)
	require.NotNil(t, cur)
	require.Equal(t, "l2", cur.ID)
	require.NotNil(t, next)
	require.Equal(t, "l3", next.ID)

	cur, next = CurrentLevel(levels, 1000)
	require.Equal(t, "l3", cur.ID)
	require.Nil(t, next)

	cur, next = CurrentLevel(nil, 10)
	require.Nil(t, cur)
	require.Nil(t, next)
}
