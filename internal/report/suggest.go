package report

import (
	"fmt"
	"math"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

// SuggestionType represents the kind of target change proposed.
type SuggestionType string

const (
	SuggestIncreaseTarget SuggestionType = "increase_target"
	SuggestReduceTarget   SuggestionType = "reduce_target"
	SuggestAddPlan        SuggestionType = "add_plan"
)

// Suggestion proposes a new target for one plan, or a new plan for a category.
type Suggestion struct {
	Type             SuggestionType  `json:"type"`
	Category         models.Category `json:"category"`
	PlanID           string          `json:"plan_id,omitempty"`
	ActivityName     string          `json:"activity_name,omitempty"`
	CurrentMinutes   int             `json:"current_minutes"`
	SuggestedMinutes int             `json:"suggested_minutes"`
	Reason           string          `json:"reason"`
}

// Suggest proposes targets that match observed averages.
//
// A category qualifies when its deviation exceeds the suggestion threshold and
// its consistency is not Low. The category's new total is spread over its
// active plans in proportion to their current targets. Categories with logged
// time but no active plan get an add_plan suggestion.
func Suggest(r Report, plans []models.Plan) []Suggestion {
	byCategory := make(map[models.Category][]models.Plan)
	for _, p := range plans {
		if p.Active {
			cat := models.NormalizeCategory(p.Category)
			byCategory[cat] = append(byCategory[cat], p)
		}
	}

	var out []Suggestion
	for _, row := range r.Categories {
		if row.PlannedDailyMinutes == 0 {
			if row.ActualAvgMinutes >= constants.SuggestionRoundingMin {
				out = append(out, Suggestion{
					Type:             SuggestAddPlan,
					Category:         row.Category,
					SuggestedMinutes: roundTo(row.ActualAvgMinutes, constants.SuggestionRoundingMin),
					Reason:           fmt.Sprintf("%.0f min/day logged with no %s plan", row.ActualAvgMinutes, row.Label),
				})
			}
			continue
		}

		planned := float64(row.PlannedDailyMinutes)
		if math.Abs(row.DiffMinutes) <= constants.SuggestionThreshold*planned || row.Consistency == ConsistencyLow {
			continue
		}

		kind := SuggestReduceTarget
		if row.DiffMinutes > 0 {
			kind = SuggestIncreaseTarget
		}
		ratio := row.ActualAvgMinutes / planned
		for _, p := range byCategory[row.Category] {
			suggested := roundTo(float64(p.TargetMinutes)*ratio, constants.SuggestionRoundingMin)
			if suggested == p.TargetMinutes {
				continue
			}
			out = append(out, Suggestion{
				Type:             kind,
				Category:         row.Category,
				PlanID:           p.ID,
				ActivityName:     p.ActivityName,
				CurrentMinutes:   p.TargetMinutes,
				SuggestedMinutes: suggested,
				Reason: fmt.Sprintf("%s averages %.0f min/day against %d planned (%s consistency)",
					row.Label, row.ActualAvgMinutes, row.PlannedDailyMinutes, row.Consistency),
			})
		}
	}
	return out
}

// roundTo rounds v to the nearest step, never below one step.
func roundTo(v float64, step int) int {
	n := int(math.Round(v/float64(step))) * step
	if n < step {
		return step
	}
	return n
}
