package adminsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
)

type fakeMemberships struct {
	byUser []types.Membership
}

func (f *fakeMemberships) ListByUser(_ context.Context, _ string) ([]types.Membership, error) {
	return f.byUser, nil
}
func (f *fakeMemberships) ListActiveByUser(_ context.Context, _ string) ([]types.Membership, error) {
	return f.byUser, nil
}
func (f *fakeMemberships) ListByOrganization(_ context.Context, _ string) ([]types.Membership, error) {
	return f.byUser, nil
}

type fakeRecalc struct {
	journey     types.Journey
	steps       []types.Step
	completions []types.StepCompletion
	updates     map[string]int
}

func (f *fakeRecalc) GetConfig(_ context.Context, orgID string) (types.GamificationConfig, error) {
	return types.GamificationConfig{OrganizationID: orgID, PointsMultiplier: 2.0}, nil
}
func (f *fakeRecalc) GetJourney(_ context.Context, id string) (types.Journey, error) {
	if f.journey.ID != id {
		return types.Journey{}, repository.ErrNotFound
	}
	return f.journey, nil
}
func (f *fakeRecalc) ListJourneyIDs(_ context.Context, _, _ string) ([]string, error) {
	return []string{"j-1"}, nil
}
func (f *fakeRecalc) ListSteps(_ context.Context, _ []string) ([]types.Step, error) {
	return f.steps, nil
}
func (f *fakeRecalc) ListCompletions(_ context.Context, _ []string) ([]types.StepCompletion, error) {
	return f.completions, nil
}
func (f *fakeRecalc) UpdateCompletionPoints(_ context.Context, id string, points int) error {
	if f.updates == nil {
		f.updates = map[string]int{}
	}
	f.updates[id] = points
	return nil
}

type fakeLedger struct {
	updates map[string]int
}

func (f *fakeLedger) ListByUser(_ context.Context, _, _ string, _ int) ([]types.LedgerEntry, error) {
	return nil, nil
}
func (f *fakeLedger) Insert(_ context.Context, e types.LedgerEntry) (types.LedgerEntry, error) {
	return e, nil
}
func (f *fakeLedger) UpdateAmountByReference(_ context.Context, referenceID, _ string, amount int) error {
	if f.updates == nil {
		f.updates = map[string]int{}
	}
	f.updates[referenceID] = amount
	return nil
}

var _ repository.RecalcRepository = (*fakeRecalc)(nil)
var _ repository.LedgerRepository = (*fakeLedger)(nil)

func ownerMembership() []types.Membership {
	return []types.Membership{{
		UserID:         "u-1",
		OrganizationID: "org-a",
		Role:           types.RoleOwner,
		Status:         types.MembershipActive,
	}}
}

func TestRecalculate_ActualizaCompletionsYLedger(t *testing.T) {
	base := 15
	recalc := &fakeRecalc{
		steps: []types.Step{
			{ID: "s-1", BasePoints: &base}, // 15 × 2.0 = 30
			{ID: "s-2"},                    // default 10 × 2.0 = 20
		},
		completions: []types.StepCompletion{
			{ID: "c-1", StepID: "s-1", PointsEarned: 15}, // desalineada
			{ID: "c-2", StepID: "s-2", PointsEarned: 20}, // ya al día
		},
	}
	ledger := &fakeLedger{}
	svc := New(Deps{
		Memberships: &fakeMemberships{byUser: ownerMembership()},
		Recalc:      recalc,
		Ledger:      ledger,
	})

	got, err := svc.Recalculate(context.Background(), types.Principal{ID: "u-1"}, "org-a", "")
	require.NoError(t, err)

	assert.Equal(t, 1, got.UpdatedCompletions)
	assert.Equal(t, map[string]int{"c-1": 30}, recalc.updates)
	assert.Equal(t, map[string]int{"c-1": 30}, ledger.updates, "el asiento sigue a la completion")
}

func TestRecalculate_JourneyDeLaOrgPasa(t *testing.T) {
	recalc := &fakeRecalc{journey: types.Journey{ID: "j-1", OrganizationID: "org-a"}}
	svc := New(Deps{
		Memberships: &fakeMemberships{byUser: ownerMembership()},
		Recalc:      recalc,
		Ledger:      &fakeLedger{},
	})

	_, err := svc.Recalculate(context.Background(), types.Principal{ID: "u-1"}, "org-a", "j-1")
	require.NoError(t, err)
}

func TestRecalculate_JourneyDeOtraOrgDeniega(t *testing.T) {
	recalc := &fakeRecalc{journey: types.Journey{ID: "j-9", OrganizationID: "org-b"}}
	svc := New(Deps{
		Memberships: &fakeMemberships{byUser: ownerMembership()},
		Recalc:      recalc,
		Ledger:      &fakeLedger{},
	})

	_, err := svc.Recalculate(context.Background(), types.Principal{ID: "u-1"}, "org-a", "j-9")
	assert.ErrorIs(t, err, authz.ErrNotOwner)
	assert.Empty(t, recalc.updates, "no se toca nada de la otra org")
}

func TestRecalculate_JourneyInexistenteEsNotFound(t *testing.T) {
	svc := New(Deps{
		Memberships: &fakeMemberships{byUser: ownerMembership()},
		Recalc:      &fakeRecalc{},
		Ledger:      &fakeLedger{},
	})

	_, err := svc.Recalculate(context.Background(), types.Principal{ID: "u-1"}, "org-a", "j-miss")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecalculate_ParticipanteDeniega(t *testing.T) {
	m := ownerMembership()
	m[0].Role = types.RoleParticipante
	svc := New(Deps{
		Memberships: &fakeMemberships{byUser: m},
		Recalc:      &fakeRecalc{},
		Ledger:      &fakeLedger{},
	})

	_, err := svc.Recalculate(context.Background(), types.Principal{ID: "u-1"}, "org-a", "")
	assert.True(t, authz.IsForbidden(err))
}

func TestRecalculate_PlatformAdminSinMembresia(t *testing.T) {
	svc := New(Deps{
		Memberships: &fakeMemberships{},
		Recalc:      &fakeRecalc{},
		Ledger:      &fakeLedger{},
	})

	got, err := svc.Recalculate(context.Background(), types.Principal{ID: "root", IsPlatformAdmin: true}, "org-a", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.UpdatedCompletions)
}
