package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictBudgetExceeded      ConflictType = "budget_exceeded"
	ConflictDuplicateActivity   ConflictType = "duplicate_activity"
	ConflictInvalidCategory     ConflictType = "invalid_category"
	ConflictNonPositiveTarget   ConflictType = "non_positive_target"
	ConflictMultipleOpenSession ConflictType = "multiple_open_sessions"
)

// Conflict represents a detected conflict in a plan set
type Conflict struct {
	Type        ConflictType
	Description string
	DayType     models.DayType
	Items       []string // activity names involved
	PlanIDs     []string // IDs of plans involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator validates plans before they are written
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidatePlan checks the fields of a single plan. It normalises the category in place.
func (v *Validator) ValidatePlan(plan *models.Plan) error {
	plan.ActivityName = strings.TrimSpace(plan.ActivityName)
	if plan.ActivityName == "" {
		return apperrors.NewValidationError("activity_name", "must not be empty")
	}
	if !plan.DayType.Valid() {
		return apperrors.NewValidationError("day_type", "invalid day type %q", plan.DayType)
	}
	plan.Category = models.NormalizeCategory(plan.Category)
	if !plan.Category.Valid() {
		return apperrors.NewValidationError("category", "unknown category %q", plan.Category)
	}
	if plan.TargetMinutes <= 0 {
		return apperrors.NewValidationError("target_minutes", "must be greater than 0")
	}
	if plan.TargetMinutes > constants.MinutesPerDay {
		return &apperrors.ValidationError{
			Field:       "target_minutes",
			Message:     fmt.Sprintf("exceeds 24h by %d minutes", plan.TargetMinutes-constants.MinutesPerDay),
			OverMinutes: plan.TargetMinutes - constants.MinutesPerDay,
		}
	}
	return nil
}

// CommittedMinutes sums the targets of active plans for dayType, skipping excludeID.
func CommittedMinutes(plans []models.Plan, dayType models.DayType, excludeID string) int {
	total := 0
	for _, p := range plans {
		if !p.Active || p.DayType != dayType {
			continue
		}
		if excludeID != "" && p.ID == excludeID {
			continue
		}
		total += p.TargetMinutes
	}
	return total
}

// CheckBudget rejects candidate when it would push its day type past 24h.
// existing should hold the owner's current plans; the candidate's stored
// version, if any, is excluded by ID. Inactive candidates always pass.
func (v *Validator) CheckBudget(existing []models.Plan, candidate models.Plan) error {
	if !candidate.Active {
		return nil
	}
	total := CommittedMinutes(existing, candidate.DayType, candidate.ID) + candidate.TargetMinutes
	if total <= constants.MinutesPerDay {
		return nil
	}
	over := total - constants.MinutesPerDay
	return &apperrors.ValidationError{
		Field:       "target_minutes",
		Message:     fmt.Sprintf("%s plans would total %d minutes, %d minutes over the 24h budget", candidate.DayType, total, over),
		OverMinutes: over,
	}
}

// ValidateCandidate runs field validation followed by the budget check.
func (v *Validator) ValidateCandidate(existing []models.Plan, candidate *models.Plan) error {
	if err := v.ValidatePlan(candidate); err != nil {
		return err
	}
	return v.CheckBudget(existing, *candidate)
}

// ValidatePlans scans a stored plan set for problems that slipped past the
// write path, such as rows edited directly in the database.
func (v *Validator) ValidatePlans(plans []models.Plan) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, dt := range models.DayTypes {
		total := CommittedMinutes(plans, dt, "")
		if total > constants.MinutesPerDay {
			var names, ids []string
			for _, p := range plans {
				if p.Active && p.DayType == dt {
					names = append(names, p.ActivityName)
					ids = append(ids, p.ID)
				}
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBudgetExceeded,
				Description: fmt.Sprintf("Active %s plans total %d minutes, %d over the 24h budget", dt, total, total-constants.MinutesPerDay),
				DayType:     dt,
				Items:       names,
				PlanIDs:     ids,
			})
		}
	}

	type key struct {
		dayType models.DayType
		name    string
	}
	byName := make(map[key][]models.Plan)
	var order []key
	for _, p := range plans {
		if !p.Active {
			continue
		}
		if !p.Category.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidCategory,
				Description: fmt.Sprintf("Plan \"%s\" has unknown category %q", p.ActivityName, p.Category),
				DayType:     p.DayType,
				Items:       []string{p.ActivityName},
				PlanIDs:     []string{p.ID},
			})
		}
		if p.TargetMinutes <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNonPositiveTarget,
				Description: fmt.Sprintf("Plan \"%s\" has non-positive target %d", p.ActivityName, p.TargetMinutes),
				DayType:     p.DayType,
				Items:       []string{p.ActivityName},
				PlanIDs:     []string{p.ID},
			})
		}
		k := key{p.DayType, strings.ToLower(strings.TrimSpace(p.ActivityName))}
		if k.name == "" {
			continue
		}
		if _, seen := byName[k]; !seen {
			order = append(order, k)
		}
		byName[k] = append(byName[k], p)
	}

	for _, k := range order {
		dupes := byName[k]
		if len(dupes) < 2 {
			continue
		}
		ids := make([]string, len(dupes))
		for i, p := range dupes {
			ids[i] = p.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateActivity,
			Description: fmt.Sprintf("Duplicate %s plan for \"%s\" (IDs: %v)", k.dayType, dupes[0].ActivityName, ids),
			DayType:     k.dayType,
			Items:       []string{dupes[0].ActivityName},
			PlanIDs:     ids,
		})
	}

	return result
}

// AutoFixDuplicatePlans deactivates all but one plan of each duplicate group.
// The plan with the lexicographically smallest ID is kept.
func AutoFixDuplicatePlans(conflicts []Conflict, deactivate func(id string) error) []FixAction {
	actions := []FixAction{}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateActivity || len(conflict.PlanIDs) <= 1 {
			continue
		}

		ids := append([]string(nil), conflict.PlanIDs...)
		sort.Strings(ids)
		keep := ids[0]

		var deactivated, failed []string
		for _, id := range ids[1:] {
			if err := deactivate(id); err != nil {
				failed = append(failed, id)
				continue
			}
			deactivated = append(deactivated, id)
		}

		name := ""
		if len(conflict.Items) > 0 {
			name = conflict.Items[0]
		}
		switch {
		case len(deactivated) > 0:
			msg := fmt.Sprintf("Deactivated %d duplicate plan(s) for \"%s\" (kept ID: %s, deactivated: %v)", len(deactivated), name, keep, deactivated)
			if len(failed) > 0 {
				msg += fmt.Sprintf(" (failed: %v)", failed)
			}
			actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
		case len(failed) > 0:
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to deactivate duplicates for \"%s\": %v", name, failed),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}
