package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

func TestSuggestReduceSplitsAcrossPlans(t *testing.T) {
	plans := []models.Plan{
		plan("gym", models.CategoryHealth, 60, true),
		plan("walk", models.CategoryHealth, 30, true),
	}
	// 45 min/day against 90 planned
	sessions := daily("gym", "2024-01-08", 7, 45*60)
	r := Aggregate(plans, sessions, rolling(t, "2024-01-08"))

	got := Suggest(r, plans)
	require.Len(t, got, 2)
	assert.Equal(t, SuggestReduceTarget, got[0].Type)
	assert.Equal(t, "gym", got[0].PlanID)
	assert.Equal(t, 30, got[0].SuggestedMinutes)
	assert.Equal(t, "walk", got[1].PlanID)
	assert.Equal(t, 15, got[1].SuggestedMinutes)
}

func TestSuggestIncrease(t *testing.T) {
	plans := []models.Plan{plan("job", models.CategoryWork, 240, true)}
	sessions := daily("job", "2024-01-08", 6, 7*3600) // 360 min/day over 7
	r := Aggregate(plans, sessions, rolling(t, "2024-01-08"))

	got := Suggest(r, plans)
	require.Len(t, got, 1)
	assert.Equal(t, SuggestIncreaseTarget, got[0].Type)
	assert.Equal(t, 240, got[0].CurrentMinutes)
	assert.Equal(t, 360, got[0].SuggestedMinutes)
}

func TestSuggestSkipsSmallDeviationAndLowConsistency(t *testing.T) {
	plans := []models.Plan{
		plan("job", models.CategoryWork, 60, true),
		plan("read", models.CategoryLearning, 60, true),
	}
	sessions := daily("job", "2024-01-08", 7, 55*60) // within 15%
	sessions = append(sessions, closed("read", "2024-01-08", 3*3600))

	r := Aggregate(plans, sessions, rolling(t, "2024-01-08"))
	assert.Empty(t, Suggest(r, plans))
}

func TestSuggestAddPlan(t *testing.T) {
	plans := []models.Plan{plan("old-hobby", models.CategoryLeisure, 30, false)}
	sessions := daily("old-hobby", "2024-01-08", 7, 41*60)

	r := Aggregate(plans, sessions, rolling(t, "2024-01-08"))
	got := Suggest(r, plans)
	require.Len(t, got, 1)
	assert.Equal(t, SuggestAddPlan, got[0].Type)
	assert.Equal(t, models.CategoryLeisure, got[0].Category)
	assert.Equal(t, 40, got[0].SuggestedMinutes)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 5, roundTo(1, 5))
	assert.Equal(t, 10, roundTo(12.4, 5))
	assert.Equal(t, 15, roundTo(12.5, 5))
	assert.Equal(t, 360, roundTo(358, 5))
}
