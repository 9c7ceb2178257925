package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
)

func setupService(t *testing.T, owner string) (*Service, *sqlite.Store, *metrics.Metrics) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "plans.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	m := metrics.New(prometheus.NewRegistry())
	return NewService(store, identity.Static(owner), m), store, m
}

func weekday(name string, minutes int) models.Plan {
	return models.Plan{
		ActivityName:  name,
		DayType:       models.DayTypeWeekday,
		Category:      models.CategoryWork,
		TargetMinutes: minutes,
	}
}

func TestSaveRejectsOverBudget(t *testing.T) {
	ctx := context.Background()
	svc, _, m := setupService(t, "owner")

	for _, name := range []string{"Deep work", "Meetings"} {
		if _, err := svc.Save(ctx, weekday(name, 500)); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
	}

	_, err := svc.Save(ctx, weekday("Admin", 500))
	if !errors.Is(err, apperrors.ErrBudgetExceeded) {
		t.Fatalf("expected budget error, got %v", err)
	}
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || verr.OverMinutes != 60 {
		t.Errorf("expected 60 minutes over, got %+v", verr)
	}
	if got := testutil.ToFloat64(m.BudgetRejections); got != 1 {
		t.Errorf("BudgetRejections = %v, want 1", got)
	}

	// Other day types have their own budget.
	weekend := weekday("Admin", 500)
	weekend.DayType = models.DayTypeWeekend
	if _, err := svc.Save(ctx, weekend); err != nil {
		t.Errorf("weekend plan should fit: %v", err)
	}
}

func TestSaveEditExcludesOwnTarget(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, "owner")

	p, err := svc.Save(ctx, weekday("Deep work", 1000))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Active || p.OwnerID != "owner" {
		t.Errorf("new plan should be active and owned: %+v", p)
	}

	p.TargetMinutes = 1440
	if _, err := svc.Save(ctx, p); err != nil {
		t.Errorf("editing a plan should not count its old target: %v", err)
	}
}

func TestSaveValidatesFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, "owner")

	tests := []struct {
		name string
		plan models.Plan
	}{
		{"empty name", weekday("  ", 30)},
		{"zero target", weekday("x", 0)},
		{"bad category", models.Plan{ActivityName: "x", DayType: models.DayTypeWeekday, Category: "hobby", TargetMinutes: 10}},
		{"bad day type", models.Plan{ActivityName: "x", DayType: "someday", Category: models.CategoryWork, TargetMinutes: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, tt.plan); !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t, "owner")

	foreign, err := store.UpsertPlan(ctx, models.Plan{OwnerID: "other", ActivityName: "x", DayType: models.DayTypeWeekday, Category: models.CategoryWork, TargetMinutes: 10, Active: true})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, foreign.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get foreign plan: expected not found, got %v", err)
	}
	if err := svc.Deactivate(ctx, foreign.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Deactivate foreign plan: expected not found, got %v", err)
	}
	foreign.TargetMinutes = 20
	if _, err := svc.Save(ctx, foreign); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Save foreign plan: expected not found, got %v", err)
	}
}

func TestDeactivateAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, "owner")

	old, err := svc.Save(ctx, weekday("Old", 800))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Deactivate(ctx, old.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	active, _ := svc.List(ctx, false)
	if len(active) != 0 {
		t.Fatalf("expected no active plans, got %d", len(active))
	}

	if _, err := svc.Save(ctx, weekday("New", 800)); err != nil {
		t.Fatalf("budget should be freed by deactivation: %v", err)
	}

	if err := svc.Restore(ctx, old.ID); !errors.Is(err, apperrors.ErrBudgetExceeded) {
		t.Fatalf("restore should be re-validated, got %v", err)
	}

	all, _ := svc.List(ctx, true)
	if len(all) != 2 {
		t.Errorf("expected 2 plans including inactive, got %d", len(all))
	}
}

func TestBudgets(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, "owner")
	if _, err := svc.Save(ctx, weekday("Work", 480)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, weekday("Sleep", 465)); err != nil {
		t.Fatal(err)
	}

	budgets, err := svc.Budgets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 3 {
		t.Fatalf("expected 3 budgets, got %d", len(budgets))
	}
	if budgets[0].Committed != 945 || budgets[0].Remaining != 495 {
		t.Errorf("weekday budget = %+v", budgets[0])
	}
	if got := budgets[0].String(); got != "15h 45m of 24h" {
		t.Errorf("String() = %q", got)
	}
	if budgets[1].Committed != 0 {
		t.Errorf("weekend budget = %+v", budgets[1])
	}

	dayPlans, err := svc.ForDayType(ctx, models.DayTypeWeekday)
	if err != nil || len(dayPlans) != 2 {
		t.Errorf("ForDayType = %d plans, err %v", len(dayPlans), err)
	}
}

func TestRequiresIdentity(t *testing.T) {
	svc, _, _ := setupService(t, "")
	if _, err := svc.Save(context.Background(), weekday("x", 10)); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}
