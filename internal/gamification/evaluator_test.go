package gamification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

func state(points int) UserState {
	return UserState{
		TotalPoints:         points,
		EarnedRewardIDs:     map[string]struct{}{},
		CompletedJourneyIDs: map[string]struct{}{},
		LevelsByID:          map[string]types.Level{},
		NamesByID:           map[string]string{},
	}
}

func TestEvaluateUnlock_SinCondiciones(t *testing.T) {
	for _, logic := range []types.UnlockLogic{types.UnlockAND, types.UnlockOR} {
		ok, reasons := EvaluateUnlock(Unlockable{Logic: logic}, state(0))
		require.True(t, ok)
		require.Empty(t, reasons)
	}
}

func TestEvaluateUnlock_PointsThreshold(t *testing.T) {
	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.CondPointsThreshold, ReferenceValue: 100},
		},
	}

	ok, reasons := EvaluateUnlock(item, state(40))
	require.False(t, ok)
	require.Equal(t, []string{"Te faltan 60 puntos para desbloquear"}, reasons)

	ok, reasons = EvaluateUnlock(item, state(100))
	require.True(t, ok)
	require.Empty(t, reasons)
}

func TestEvaluateUnlock_LevelRequired(t *testing.T) {
	st := state(50)
	st.LevelsByID["lvl2"] = types.Level{ID: "lvl2", Name: "Explorador", MinPoints: 80}

	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.CondLevelRequired, ReferenceID: "lvl2"},
		},
	}

	ok, reasons := EvaluateUnlock(item, st)
	require.False(t, ok)
	require.Equal(t, []string{"Necesitas alcanzar el nivel Explorador"}, reasons)

	st.TotalPoints = 80
	ok, _ = EvaluateUnlock(item, st)
	require.True(t, ok)
}

// Nivel no resoluble: política permisiva explícita (fail open).
func TestEvaluateUnlock_NivelDesconocidoDesbloquea(t *testing.T) {
	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.CondLevelRequired, ReferenceID: "no-existe"},
		},
	}
	ok, reasons := EvaluateUnlock(item, state(0))
	require.True(t, ok)
	require.Empty(t, reasons)
}

// Tipo de condición no reconocido: también fail open.
func TestEvaluateUnlock_TipoDesconocidoDesbloquea(t *testing.T) {
	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.ConditionType("telepatia"), ReferenceValue: 9000},
		},
	}
	ok, reasons := EvaluateUnlock(item, state(0))
	require.True(t, ok)
	require.Empty(t, reasons)
}

func TestEvaluateUnlock_RewardYJourney(t *testing.T) {
	st := state(0)
	st.EarnedRewardIDs["badge1"] = struct{}{}
	st.CompletedJourneyIDs["j1"] = struct{}{}
	st.NamesByID["badge2"] = "Madrugador"
	st.NamesByID["j2"] = "Onboarding"

	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.CondRewardRequired, ReferenceID: "badge1"},
			{Type: types.CondJourneyCompleted, ReferenceID: "j1"},
		},
	}
	ok, _ := EvaluateUnlock(item, st)
	require.True(t, ok)

	item.Conditions = []types.UnlockCondition{
		{Type: types.CondRewardRequired, ReferenceID: "badge2"},
		{Type: types.CondJourneyCompleted, ReferenceID: "j2"},
	}
	ok, reasons := EvaluateUnlock(item, st)
	require.False(t, ok)
	require.Equal(t, []string{
		"Necesitas obtener el badge Madrugador",
		"Completa el Journey Onboarding para desbloquear",
	}, reasons)
}

// AND: bloqueado acumula una razón por cada condición fallida.
func TestEvaluateUnlock_ANDAcumulaRazones(t *testing.T) {
	st := state(10)
	item := Unlockable{
		Logic: types.UnlockAND,
		Conditions: []types.UnlockCondition{
			{Type: types.CondPointsThreshold, ReferenceValue: 100},
			{Type: types.CondRewardRequired, ReferenceID: "bX"},
			{Type: types.CondJourneyCompleted, ReferenceID: "jX"},
		},
	}
	ok, reasons := EvaluateUnlock(item, st)
	require.False(t, ok)
	require.Len(t, reasons, 3)
}

// Escenario 5: OR bloqueado reporta todas las razones fallidas.
func TestEvaluateUnlock_ORBloqueado(t *testing.T) {
	st := state(50)
	st.NamesByID["badgeX"] = "badgeX"
	item := Unlockable{
		Logic: types.UnlockOR,
		Conditions: []types.UnlockCondition{
			{Type: types.CondPointsThreshold, ReferenceValue: 100},
			{Type: types.CondRewardRequired, ReferenceID: "badgeX"},
		},
	}
	ok, reasons := EvaluateUnlock(item, st)
	require.False(t, ok)
	require.Equal(t, []string{
		"Te faltan 50 puntos para desbloquear",
		"Necesitas obtener el badge badgeX",
	}, reasons)
}

// Escenario 6: el mismo OR desbloquea con puntos suficientes y las razones
// parciales se descartan, nunca se reportan a medias en un éxito.
func TestEvaluateUnlock_ORExitoLimpiaRazones(t *testing.T) {
	st := state(150)
	st.NamesByID["badgeX"] = "badgeX"
	item := Unlockable{
		Logic: types.UnlockOR,
		Conditions: []types.UnlockCondition{
			{Type: types.CondPointsThreshold, ReferenceValue: 100},
			{Type: types.CondRewardRequired, ReferenceID: "badgeX"},
		},
	}
	ok, reasons := EvaluateUnlock(item, st)
	require.True(t, ok)
	require.Empty(t, reasons)
}
