// Package gamificationsvc orquesta el progreso, el ledger y el catálogo
// desbloqueable sobre la lógica pura de internal/gamification.
package gamificationsvc

import (
	"context"
	"fmt"
	"math"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	"github.com/fsotosa-ops/oasis-backend/internal/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/hooks"
	dto "github.com/fsotosa-ops/oasis-backend/internal/httpapi/dto/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// Service define las operaciones de gamificación de cara a la API.
type Service interface {
	// GetProgress retorna el resumen de progreso del usuario.
	GetProgress(ctx context.Context, p types.Principal, orgID string) (dto.Progress, error)

	// ListLedger retorna el ledger deduplicado del usuario.
	ListLedger(ctx context.Context, p types.Principal, orgID string, limit int) (dto.Ledger, error)

	// ListRewards retorna el catálogo con estado de desbloqueo por usuario.
	ListRewards(ctx context.Context, p types.Principal, orgID string) ([]dto.RewardStatus, error)

	// GetReward retorna un reward con su estado de desbloqueo.
	GetReward(ctx context.Context, p types.Principal, orgID, rewardID string) (dto.RewardStatus, error)

	// CompleteStep registra la completion, otorga puntos y dispara el hook
	// de actividad best-effort.
	CompleteStep(ctx context.Context, p types.Principal, orgID, stepID string) (dto.StepCompleted, error)
}

// ConfigSource expone la configuración de puntos de una organización.
type ConfigSource interface {
	GetConfig(ctx context.Context, orgID string) (types.GamificationConfig, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Memberships repository.MembershipRepository
	Ledger      repository.LedgerRepository
	Activities  repository.ActivityRepository
	Progress    repository.ProgressRepository
	Catalog     repository.CatalogRepository
	Steps       repository.StepRepository
	Config      ConfigSource
}

type service struct {
	memberships repository.MembershipRepository
	ledger      repository.LedgerRepository
	activities  repository.ActivityRepository
	progress    repository.ProgressRepository
	catalog     repository.CatalogRepository
	steps       repository.StepRepository
	config      ConfigSource
}

// New crea el servicio de gamificación.
func New(deps Deps) Service {
	return &service{
		memberships: deps.Memberships,
		ledger:      deps.Ledger,
		activities:  deps.Activities,
		progress:    deps.Progress,
		catalog:     deps.Catalog,
		steps:       deps.Steps,
		config:      deps.Config,
	}
}

// Defaults cuando la organización no tiene configuración propia.
const (
	defaultMultiplier = 1.0
	defaultStepPoints = 10
)

// recentActivityLimit acota el historial embebido en el resumen de progreso.
const recentActivityLimit = 10

// participantRoles: lectura de progreso/catálogo, abierta a cualquier rol.
var participantRoles = []types.Role{
	types.RoleOwner, types.RoleAdmin, types.RoleFacilitador, types.RoleParticipante,
}

// authorize resuelve el TenantContext del request. orgID vacío permite
// alcance global (el ledger y el progreso pueden agregarse entre orgs).
func (s *service) authorize(ctx context.Context, p types.Principal, orgID string) (authz.TenantContext, error) {
	memberships, err := s.memberships.ListByUser(ctx, p.ID)
	if err != nil {
		return authz.TenantContext{}, err
	}
	tc, err := authz.AuthorizeGlobal(p, memberships, orgID, participantRoles...)
	metrics.ObserveAuthzDecision(err == nil)
	return tc, err
}

// authorizeOrg exige organización explícita.
func (s *service) authorizeOrg(ctx context.Context, p types.Principal, orgID string) (authz.TenantContext, error) {
	memberships, err := s.memberships.ListByUser(ctx, p.ID)
	if err != nil {
		return authz.TenantContext{}, err
	}
	tc, err := authz.AuthorizeOrg(p, memberships, orgID, participantRoles...)
	metrics.ObserveAuthzDecision(err == nil)
	return tc, err
}

// =================================================================================
// PROGRESO Y LEDGER
// =================================================================================

func (s *service) GetProgress(ctx context.Context, p types.Principal, orgID string) (dto.Progress, error) {
	if _, err := s.authorize(ctx, p, orgID); err != nil {
		return dto.Progress{}, err
	}

	entries, err := s.ledger.ListByUser(ctx, p.ID, orgID, 0)
	if err != nil {
		return dto.Progress{}, err
	}
	total := gamification.TotalPoints(gamification.DedupeLedger(entries))

	levels, err := s.progress.ListLevels(ctx)
	if err != nil {
		return dto.Progress{}, err
	}
	current, next := gamification.CurrentLevel(levels, total)

	rewards, err := s.progress.ListUserRewards(ctx, p.ID)
	if err != nil {
		return dto.Progress{}, err
	}
	journeys, err := s.progress.ListCompletedJourneyIDs(ctx, p.ID)
	if err != nil {
		return dto.Progress{}, err
	}

	// Se leen de más para que el dedupe no deje la página corta.
	activities, err := s.activities.ListByUser(ctx, p.ID, orgID, recentActivityLimit*2)
	if err != nil {
		return dto.Progress{}, err
	}
	recent := gamification.DedupeActivities(activities)
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}

	out := dto.Progress{
		TotalPoints:       total,
		CurrentLevel:      current,
		NextLevel:         next,
		RewardsEarned:     len(rewards),
		JourneysCompleted: len(journeys),
		RecentActivities:  recent,
	}
	if next != nil {
		out.PointsToNextLevel = next.MinPoints - total
	}
	return out, nil
}

func (s *service) ListLedger(ctx context.Context, p types.Principal, orgID string, limit int) (dto.Ledger, error) {
	if _, err := s.authorize(ctx, p, orgID); err != nil {
		return dto.Ledger{}, err
	}

	// Se lee sin límite para deduplicar sobre el historial completo; el
	// límite se aplica sobre la vista ya deduplicada.
	entries, err := s.ledger.ListByUser(ctx, p.ID, orgID, 0)
	if err != nil {
		return dto.Ledger{}, err
	}
	deduped := gamification.DedupeLedger(entries)
	total := gamification.TotalPoints(deduped)
	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return dto.Ledger{Entries: deduped, TotalPoints: total}, nil
}

// =================================================================================
// CATÁLOGO DE REWARDS
// =================================================================================

func (s *service) ListRewards(ctx context.Context, p types.Principal, orgID string) ([]dto.RewardStatus, error) {
	if _, err := s.authorize(ctx, p, orgID); err != nil {
		return nil, err
	}

	rewards, err := s.catalog.ListRewards(ctx, orgID)
	if err != nil {
		return nil, err
	}

	condSets := make([][]types.UnlockCondition, 0, len(rewards))
	for _, r := range rewards {
		condSets = append(condSets, r.UnlockConditions)
	}
	state, err := s.stateLoader().Load(ctx, p.ID, orgID, gamification.ConditionRefIDs(condSets...))
	if err != nil {
		return nil, err
	}

	out := make([]dto.RewardStatus, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, s.rewardStatus(r, state))
	}
	return out, nil
}

func (s *service) GetReward(ctx context.Context, p types.Principal, orgID, rewardID string) (dto.RewardStatus, error) {
	if _, err := s.authorize(ctx, p, orgID); err != nil {
		return dto.RewardStatus{}, err
	}

	reward, err := s.catalog.GetReward(ctx, rewardID)
	if err != nil {
		return dto.RewardStatus{}, err
	}

	state, err := s.stateLoader().Load(ctx, p.ID, orgID, gamification.ConditionRefIDs(reward.UnlockConditions))
	if err != nil {
		return dto.RewardStatus{}, err
	}
	return s.rewardStatus(reward, state), nil
}

func (s *service) rewardStatus(r types.Reward, state gamification.UserState) dto.RewardStatus {
	unlocked, reasons := gamification.EvaluateUnlock(gamification.Unlockable{
		Logic:      r.UnlockLogic,
		Conditions: r.UnlockConditions,
	}, state)
	metrics.ObserveUnlock(unlocked)

	_, earned := state.EarnedRewardIDs[r.ID]
	return dto.RewardStatus{
		Reward:        r,
		Earned:        earned,
		Unlocked:      unlocked,
		LockedReasons: reasons,
	}
}

// =================================================================================
// COMPLETAR STEP
// =================================================================================

func (s *service) CompleteStep(ctx context.Context, p types.Principal, orgID, stepID string) (dto.StepCompleted, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("gamification"),
		logger.Op("CompleteStep"),
		logger.OrgID(orgID),
		logger.StepID(stepID),
	)

	tc, err := s.authorizeOrg(ctx, p, orgID)
	if err != nil {
		log.Debug("acceso denegado", logger.Err(err))
		return dto.StepCompleted{}, err
	}
	ctx = middlewares.WithTenantContext(ctx, tc)

	step, err := s.steps.GetStep(ctx, stepID)
	if err != nil {
		return dto.StepCompleted{}, err
	}
	// El step debe colgar de un journey de la org autorizada; si no, el
	// id es inválido para este tenant y no se otorga nada.
	if step.OrganizationID != tc.OrganizationID {
		log.Warn("step fuera de la organización", logger.ID(step.ID))
		return dto.StepCompleted{}, fmt.Errorf(
			"el step no pertenece a un journey de la organización: %w", repository.ErrInvalidInput)
	}

	points, err := s.stepPoints(ctx, tc.OrganizationID, step)
	if err != nil {
		return dto.StepCompleted{}, err
	}

	completion, err := s.steps.InsertCompletion(ctx, types.StepCompletion{
		UserID:       p.ID,
		StepID:       step.ID,
		PointsEarned: points,
	})
	if err != nil {
		// ErrConflict = ya estaba completado; el llamador recibe 409.
		return dto.StepCompleted{}, err
	}

	if _, err := s.ledger.Insert(ctx, types.LedgerEntry{
		UserID:         p.ID,
		OrganizationID: tc.OrganizationID,
		Amount:         points,
		Reason:         types.ReasonStepCompleted,
		ReferenceID:    completion.ID,
	}); err != nil {
		log.Error("completion sin asiento en el ledger", logger.Err(err), logger.ID(completion.ID))
		return dto.StepCompleted{}, err
	}

	// El registro de actividad es best-effort: nunca voltea la operación.
	// El actor viaja en el contexto para que el hook no capture estado.
	hooks.RunNonCritical(ctx, "record_step_activity", func(hctx context.Context) error {
		actor, _ := middlewares.GetTenantContext(hctx)
		_, err := s.activities.Insert(hctx, types.UserActivity{
			UserID:         actor.UserID,
			OrganizationID: actor.OrganizationID,
			Type:           types.ActivityStepCompleted,
			PointsAwarded:  points,
			Metadata:       map[string]any{"step_id": step.ID},
		})
		return err
	})

	log.Info("step completado", logger.Count(points))
	return dto.StepCompleted{
		CompletionID:  completion.ID,
		StepID:        step.ID,
		PointsAwarded: points,
		CompletedAt:   completion.CompletedAt,
	}, nil
}

// stepPoints aplica round(base × multiplier) con los defaults de la org.
func (s *service) stepPoints(ctx context.Context, orgID string, step types.Step) (int, error) {
	multiplier := defaultMultiplier
	base := defaultStepPoints

	cfg, err := s.config.GetConfig(ctx, orgID)
	switch {
	case err == nil:
		if cfg.PointsMultiplier > 0 {
			multiplier = cfg.PointsMultiplier
		}
		if cfg.DefaultStepPoints > 0 {
			base = cfg.DefaultStepPoints
		}
	case repository.IsNotFound(err):
		// Sin config: defaults.
	default:
		return 0, err
	}

	if step.BasePoints != nil {
		base = *step.BasePoints
	}
	return int(math.Round(float64(base) * multiplier)), nil
}

func (s *service) stateLoader() *gamification.StateLoader {
	return &gamification.StateLoader{
		Ledger:   s.ledger,
		Progress: s.progress,
		Catalog:  s.catalog,
	}
}
