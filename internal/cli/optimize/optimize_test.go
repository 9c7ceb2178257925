package optimize

import (
	"context"
	"testing"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli/clitest"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeCmd_Validate(t *testing.T) {
	assert.NoError(t, (&OptimizeCmd{Apply: true}).Validate())
	assert.Error(t, (&OptimizeCmd{Apply: true, Interactive: true}).Validate())
}

func TestOptimizeNoSuggestions(t *testing.T) {
	env := clitest.New(t)
	p := env.AddPlan(t, "Reading", models.DayTypeWeekday, models.CategoryLearning, 30)
	env.LogWeek(t, p, 30)

	require.NoError(t, (&OptimizeCmd{Range: "rolling"}).Run(env.Ctx))
	assert.Contains(t, env.Out.String(), "No suggestions")
}

func TestOptimizeReportOnly(t *testing.T) {
	env := clitest.New(t)
	p := env.AddPlan(t, "Reading", models.DayTypeWeekday, models.CategoryLearning, 30)
	env.LogWeek(t, p, 60)

	require.NoError(t, (&OptimizeCmd{Range: "rolling"}).Run(env.Ctx))
	out := env.Out.String()
	assert.Contains(t, out, "Increase Reading")
	assert.Contains(t, out, "Target: 30m → 1h 0m")
	assert.Contains(t, out, "--apply")

	got, err := env.Store.GetPlan(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.TargetMinutes)
}

func TestOptimizeApply(t *testing.T) {
	env := clitest.New(t)
	reading := env.AddPlan(t, "Reading", models.DayTypeWeekday, models.CategoryLearning, 30)
	gym := env.AddPlan(t, "Gym", models.DayTypeWeekday, models.CategoryHealth, 120)
	env.LogWeek(t, reading, 60)
	env.LogWeek(t, gym, 60)

	require.NoError(t, (&OptimizeCmd{Range: "rolling", Apply: true}).Run(env.Ctx))
	assert.Contains(t, env.Out.String(), "Applied 2/2 target changes.")

	got, err := env.Store.GetPlan(context.Background(), reading.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.TargetMinutes)

	got, err = env.Store.GetPlan(context.Background(), gym.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.TargetMinutes)
}

func TestOptimizeSuggestsMissingPlan(t *testing.T) {
	env := clitest.New(t)
	p := env.AddPlan(t, "Walk", models.DayTypeWeekday, models.CategoryHealth, 30)
	env.LogWeek(t, p, 30)
	require.NoError(t, env.Store.DeactivatePlan(context.Background(), p.ID))

	require.NoError(t, (&OptimizeCmd{Range: "rolling", Apply: true}).Run(env.Ctx))
	out := env.Out.String()
	assert.Contains(t, out, "Add a Health plan")
	assert.Contains(t, out, "Applied 0/0 target changes.")
}
