package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

// fakeRecalcRepo es un doble en memoria de RecalcRepository.
type fakeRecalcRepo struct {
	cfg         *types.GamificationConfig
	journeys    []string
	steps       []types.Step
	completions []types.StepCompletion

	updatedCompletions map[string]int
}

func (f *fakeRecalcRepo) GetConfig(_ context.Context, _ string) (types.GamificationConfig, error) {
	if f.cfg == nil {
		return types.GamificationConfig{}, repository.ErrNotFound
	}
	return *f.cfg, nil
}

func (f *fakeRecalcRepo) GetJourney(_ context.Context, id string) (types.Journey, error) {
	for _, j := range f.journeys {
		if j == id {
			return types.Journey{ID: id}, nil
		}
	}
	return types.Journey{}, repository.ErrNotFound
}

func (f *fakeRecalcRepo) ListJourneyIDs(_ context.Context, _, journeyID string) ([]string, error) {
	if journeyID == "" {
		return f.journeys, nil
	}
	for _, j := range f.journeys {
		if j == journeyID {
			return []string{j}, nil
		}
	}
	return nil, nil
}

func (f *fakeRecalcRepo) ListSteps(_ context.Context, journeyIDs []string) ([]types.Step, error) {
	want := make(map[string]struct{}, len(journeyIDs))
	for _, j := range journeyIDs {
		want[j] = struct{}{}
	}
	var out []types.Step
	for _, s := range f.steps {
		if _, ok := want[s.JourneyID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRecalcRepo) ListCompletions(_ context.Context, stepIDs []string) ([]types.StepCompletion, error) {
	want := make(map[string]struct{}, len(stepIDs))
	for _, s := range stepIDs {
		want[s] = struct{}{}
	}
	var out []types.StepCompletion
	for _, c := range f.completions {
		if _, ok := want[c.StepID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRecalcRepo) UpdateCompletionPoints(_ context.Context, completionID string, points int) error {
	if f.updatedCompletions == nil {
		f.updatedCompletions = map[string]int{}
	}
	f.updatedCompletions[completionID] = points
	return nil
}

// fakeLedgerRepo registra las actualizaciones por referencia.
type fakeLedgerRepo struct {
	updatedByRef map[string]int
}

func (f *fakeLedgerRepo) ListByUser(_ context.Context, _, _ string, _ int) ([]types.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) Insert(_ context.Context, e types.LedgerEntry) (types.LedgerEntry, error) {
	return e, nil
}

func (f *fakeLedgerRepo) UpdateAmountByReference(_ context.Context, referenceID, reason string, amount int) error {
	if reason != types.ReasonStepCompleted {
		return nil
	}
	if f.updatedByRef == nil {
		f.updatedByRef = map[string]int{}
	}
	f.updatedByRef[referenceID] = amount
	return nil
}

func intp(v int) *int { return &v }

func TestRecalculator_ActualizaSoloDesalineados(t *testing.T) {
	repo := &fakeRecalcRepo{
		cfg:      &types.GamificationConfig{PointsMultiplier: 2.0, DefaultStepPoints: 10},
		journeys: []string{"j1"},
		steps: []types.Step{
			{ID: "s1", JourneyID: "j1", BasePoints: intp(15)}, // 15*2 = 30
			{ID: "s2", JourneyID: "j1"},                       // default 10*2 = 20
		},
		completions: []types.StepCompletion{
			{ID: "c1", StepID: "s1", PointsEarned: 30}, // ya alineada
			{ID: "c2", StepID: "s1", PointsEarned: 15}, // desalineada
			{ID: "c3", StepID: "s2", PointsEarned: 10}, // desalineada
		},
	}
	ledger := &fakeLedgerRepo{}
	rc := &Recalculator{Repo: repo, Ledger: ledger}

	updated, err := rc.Run(context.Background(), "orgA", "")
	require.NoError(t, err)
	require.Equal(t, 2, updated)
	require.Equal(t, map[string]int{"c2": 30, "c3": 20}, repo.updatedCompletions)
	require.Equal(t, map[string]int{"c2": 30, "c3": 20}, ledger.updatedByRef)
}

func TestRecalculator_SinConfigUsaDefaults(t *testing.T) {
	repo := &fakeRecalcRepo{
		journeys: []string{"j1"},
		steps: []types.Step{
			{ID: "s1", JourneyID: "j1"}, // default 10 * 1.0
		},
		completions: []types.StepCompletion{
			{ID: "c1", StepID: "s1", PointsEarned: 7},
		},
	}
	rc := &Recalculator{Repo: repo, Ledger: &fakeLedgerRepo{}}

	updated, err := rc.Run(context.Background(), "orgA", "")
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Equal(t, 10, repo.updatedCompletions["c1"])
}

func TestRecalculator_OrgSinJourneys(t *testing.T) {
	rc := &Recalculator{Repo: &fakeRecalcRepo{}, Ledger: &fakeLedgerRepo{}}
	updated, err := rc.Run(context.Background(), "orgA", "")
	require.NoError(t, err)
	require.Zero(t, updated)
}

func TestRecalculator_FiltraPorJourney(t *testing.T) {
	repo := &fakeRecalcRepo{
		journeys: []string{"j1", "j2"},
		steps: []types.Step{
			{ID: "s1", JourneyID: "j1", BasePoints: intp(5)},
			{ID: "s2", JourneyID: "j2", BasePoints: intp(5)},
		},
		completions: []types.StepCompletion{
			{ID: "c1", StepID: "s1", PointsEarned: 0},
			{ID: "c2", StepID: "s2", PointsEarned: 0},
		},
	}
	rc := &Recalculator{Repo: repo, Ledger: &fakeLedgerRepo{}}

	updated, err := rc.Run(context.Background(), "orgA", "j2")
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Contains(t, repo.updatedCompletions, "c2")
	require.NotContains(t, repo.updatedCompletions, "c1")
}
