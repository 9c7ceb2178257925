package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

func weekdayPlan(id, name string, minutes int) models.Plan {
	return models.Plan{
		ID:            id,
		OwnerID:       "owner",
		ActivityName:  name,
		DayType:       models.DayTypeWeekday,
		Category:      models.CategoryWork,
		TargetMinutes: minutes,
		Active:        true,
	}
}

func TestCheckBudget_ReportsOverage(t *testing.T) {
	validator := New()

	existing := []models.Plan{
		weekdayPlan("1", "Deep work", 500),
		weekdayPlan("2", "Sleep", 500),
	}
	candidate := weekdayPlan("", "Commute", 500)

	err := validator.CheckBudget(existing, candidate)
	if err == nil {
		t.Fatal("Expected budget error for 1500 weekday minutes")
	}
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if ve.OverMinutes != 60 {
		t.Errorf("OverMinutes = %d, want 60", ve.OverMinutes)
	}
	if !errors.Is(err, apperrors.ErrBudgetExceeded) {
		t.Error("Expected error to match ErrBudgetExceeded")
	}
}

func TestCheckBudget_ExactlyFull(t *testing.T) {
	validator := New()
	existing := []models.Plan{weekdayPlan("1", "Sleep", 480), weekdayPlan("2", "Work", 480)}
	if err := validator.CheckBudget(existing, weekdayPlan("", "Rest", 480)); err != nil {
		t.Errorf("1440 minutes should fit, got %v", err)
	}
}

func TestCheckBudget_ExcludesEditedPlan(t *testing.T) {
	validator := New()
	existing := []models.Plan{
		weekdayPlan("1", "Sleep", 480),
		weekdayPlan("2", "Work", 900),
	}
	// Editing plan 2 down must not count its old 900 minutes.
	edited := weekdayPlan("2", "Work", 960)
	if err := validator.CheckBudget(existing, edited); err != nil {
		t.Errorf("edit within budget rejected: %v", err)
	}
	edited.TargetMinutes = 961
	if err := validator.CheckBudget(existing, edited); err == nil {
		t.Error("edit one minute over budget accepted")
	}
}

func TestCheckBudget_IgnoresOtherDayTypesAndInactive(t *testing.T) {
	validator := New()
	weekend := weekdayPlan("1", "Hiking", 1000)
	weekend.DayType = models.DayTypeWeekend
	inactive := weekdayPlan("2", "Old job", 1000)
	inactive.Active = false

	if err := validator.CheckBudget([]models.Plan{weekend, inactive}, weekdayPlan("", "Work", 1000)); err != nil {
		t.Errorf("unexpected budget error: %v", err)
	}

	candidate := weekdayPlan("3", "Parked", 2000)
	candidate.Active = false
	if err := validator.CheckBudget(nil, candidate); err != nil {
		t.Errorf("inactive candidate should pass, got %v", err)
	}
}

func TestValidatePlan(t *testing.T) {
	validator := New()
	tests := []struct {
		name      string
		mutate    func(p *models.Plan)
		wantField string
	}{
		{name: "valid", mutate: func(p *models.Plan) {}},
		{name: "blank name", mutate: func(p *models.Plan) { p.ActivityName = "   " }, wantField: "activity_name"},
		{name: "zero target", mutate: func(p *models.Plan) { p.TargetMinutes = 0 }, wantField: "target_minutes"},
		{name: "negative target", mutate: func(p *models.Plan) { p.TargetMinutes = -5 }, wantField: "target_minutes"},
		{name: "target over a day", mutate: func(p *models.Plan) { p.TargetMinutes = 1500 }, wantField: "target_minutes"},
		{name: "bad day type", mutate: func(p *models.Plan) { p.DayType = "monday" }, wantField: "day_type"},
		{name: "bad category", mutate: func(p *models.Plan) { p.Category = "gardening" }, wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := weekdayPlan("1", "Reading", 30)
			tt.mutate(&p)
			err := validator.ValidatePlan(&p)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidatePlan_NormalizesLegacyCategory(t *testing.T) {
	p := weekdayPlan("1", "  Spanish ", 30)
	p.Category = "education"
	if err := New().ValidatePlan(&p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Category != models.CategoryLearning {
		t.Errorf("Category = %q, want learning", p.Category)
	}
	if p.ActivityName != "Spanish" {
		t.Errorf("ActivityName = %q, want trimmed", p.ActivityName)
	}
}

func TestValidatePlans_Conflicts(t *testing.T) {
	validator := New()
	plans := []models.Plan{
		weekdayPlan("1", "Work", 800),
		weekdayPlan("2", "work", 700),
		weekdayPlan("3", "Reading", 30),
	}
	plans[2].Category = "gardening"

	result := validator.ValidatePlans(plans)
	if !result.HasConflicts() {
		t.Fatal("Expected conflicts")
	}

	found := map[ConflictType]bool{}
	for _, c := range result.Conflicts {
		found[c.Type] = true
	}
	for _, want := range []ConflictType{ConflictBudgetExceeded, ConflictDuplicateActivity, ConflictInvalidCategory} {
		if !found[want] {
			t.Errorf("Expected %s conflict, got %+v", want, result.Conflicts)
		}
	}

	report := result.FormatReport()
	if !strings.Contains(report, "90 over the 24h budget") {
		t.Errorf("report missing overage: %s", report)
	}
}

func TestValidatePlans_NoConflicts(t *testing.T) {
	validator := New()
	result := validator.ValidatePlans([]models.Plan{weekdayPlan("1", "Work", 480), weekdayPlan("2", "Sleep", 480)})
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %v", result.Conflicts)
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %s", result.FormatReport())
	}
}

func TestAutoFixDuplicatePlans(t *testing.T) {
	conflicts := []Conflict{{
		Type:    ConflictDuplicateActivity,
		Items:   []string{"Work"},
		PlanIDs: []string{"c", "a", "b"},
	}}

	var deactivated []string
	actions := AutoFixDuplicatePlans(conflicts, func(id string) error {
		if id == "c" {
			return fmt.Errorf("locked")
		}
		deactivated = append(deactivated, id)
		return nil
	})

	if len(deactivated) != 1 || deactivated[0] != "b" {
		t.Errorf("deactivated = %v, want [b]", deactivated)
	}
	if len(actions) != 1 || !strings.Contains(actions[0].Action, "kept ID: a") || !strings.Contains(actions[0].Action, "failed") {
		t.Errorf("unexpected actions: %+v", actions)
	}
}
