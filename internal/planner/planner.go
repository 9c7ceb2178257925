// Package planner is the write path for plans: every create, edit and
// restore goes through the budget validator before reaching the store.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/validation"
)

type Service struct {
	store     storage.Provider
	identity  identity.Provider
	validator *validation.Validator
	metrics   *metrics.Metrics
	log       *log.Logger
}

func NewService(store storage.Provider, ident identity.Provider, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		identity:  ident,
		validator: validation.New(),
		metrics:   m,
		log:       logger.With("component", "planner"),
	}
}

// Budget is the committed time for one day type.
type Budget struct {
	DayType   models.DayType `json:"day_type"`
	Committed int            `json:"committed_minutes"`
	Remaining int            `json:"remaining_minutes"`
}

func (b Budget) String() string {
	return fmt.Sprintf("%s of 24h", utils.FormatHoursMinutes(b.Committed))
}

// Owner returns the signed-in owner id.
func (s *Service) Owner(ctx context.Context) (string, error) {
	return s.identity.CurrentIdentity(ctx)
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]models.Plan, error) {
	owner, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.store.ListPlans(ctx, owner, includeInactive)
	if err != nil {
		return nil, apperrors.Persistence("list plans", err)
	}
	return plans, nil
}

// ForDayType returns the active plans for dayType.
func (s *Service) ForDayType(ctx context.Context, dayType models.DayType) ([]models.Plan, error) {
	plans, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return scheduler.PlansForDayType(plans, dayType), nil
}

// Get loads a plan owned by the signed-in user.
func (s *Service) Get(ctx context.Context, id string) (models.Plan, error) {
	owner, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return models.Plan{}, err
	}
	p, err := s.store.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Plan{}, fmt.Errorf("plan %s: %w", id, storage.ErrNotFound)
		}
		return models.Plan{}, apperrors.Persistence("get plan", err)
	}
	if p.OwnerID != owner {
		return models.Plan{}, fmt.Errorf("plan %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

// Save creates plan when its ID is empty, otherwise replaces the stored plan.
// New plans start active.
func (s *Service) Save(ctx context.Context, plan models.Plan) (models.Plan, error) {
	owner, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return models.Plan{}, err
	}
	if plan.ID == "" {
		plan.Active = true
	} else if _, err := s.Get(ctx, plan.ID); err != nil {
		return models.Plan{}, err
	}
	plan.OwnerID = owner

	existing, err := s.store.ListPlans(ctx, owner, false)
	if err != nil {
		return models.Plan{}, apperrors.Persistence("save plan", err)
	}
	if err := s.validator.ValidateCandidate(existing, &plan); err != nil {
		if errors.Is(err, apperrors.ErrBudgetExceeded) {
			s.metrics.BudgetRejected()
		}
		s.log.Debug("plan rejected", "owner", owner, "plan", plan.ID, "error", err)
		return models.Plan{}, err
	}

	saved, err := s.store.UpsertPlan(ctx, plan)
	if err != nil {
		return models.Plan{}, apperrors.Persistence("save plan", err)
	}
	s.log.Debug("plan saved", "owner", owner, "plan", saved.ID, "day_type", saved.DayType, "target", saved.TargetMinutes)
	return saved, nil
}

// Deactivate soft-deletes a plan. Its sessions keep referencing it.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeactivatePlan(ctx, id); err != nil {
		return apperrors.Persistence("deactivate plan", err)
	}
	return nil
}

// Restore reactivates a plan if its day type still has room for it.
func (s *Service) Restore(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Active {
		return nil
	}
	existing, err := s.store.ListPlans(ctx, p.OwnerID, false)
	if err != nil {
		return apperrors.Persistence("restore plan", err)
	}
	p.Active = true
	if err := s.validator.CheckBudget(existing, p); err != nil {
		s.metrics.BudgetRejected()
		return err
	}
	if err := s.store.ReactivatePlan(ctx, id); err != nil {
		return apperrors.Persistence("restore plan", err)
	}
	return nil
}

// Budgets reports committed minutes for every day type.
func (s *Service) Budgets(ctx context.Context) ([]Budget, error) {
	plans, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]Budget, 0, len(models.DayTypes))
	for _, dt := range models.DayTypes {
		committed := validation.CommittedMinutes(plans, dt, "")
		out = append(out, Budget{
			DayType:   dt,
			Committed: committed,
			Remaining: max(0, constants.MinutesPerDay-committed),
		})
	}
	return out, nil
}
