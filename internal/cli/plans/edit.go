package plans

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type PlanEditCmd struct {
	ID       string  `arg:"" help:"Plan ID."`
	Name     *string `help:"New activity name."`
	DayType  *string `short:"d" name:"day-type" help:"New day type (weekday|weekend|holiday)."`
	Category *string `short:"c" help:"New category."`
	Target   *int    `short:"t" help:"New daily target in minutes."`
}

func (c *PlanEditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc := ctx.Plans()

	plan, err := svc.Get(bg, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find plan: %w", err)
	}

	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return apperrors.NewValidationError("activity_name", "must not be empty")
		}
		plan.ActivityName = strings.TrimSpace(*c.Name)
	}
	if c.DayType != nil {
		dt, err := models.ParseDayType(*c.DayType)
		if err != nil {
			return apperrors.NewValidationError("day_type", "%v", err)
		}
		plan.DayType = dt
	}
	if c.Category != nil {
		cat := models.NormalizeCategory(models.Category(*c.Category))
		if !cat.Valid() {
			return apperrors.NewValidationError("category", "unknown category %q", *c.Category)
		}
		plan.Category = cat
	}
	if c.Target != nil {
		if *c.Target <= 0 || *c.Target > constants.MinutesPerDay {
			return apperrors.NewValidationError("target_minutes", "must be between 1 and %d", constants.MinutesPerDay)
		}
		plan.TargetMinutes = *c.Target
	}

	saved, err := svc.Save(bg, plan)
	if err != nil {
		return err
	}

	ctx.Printf("Updated plan: %s, %s on %ss\n", saved.ActivityName, utils.FormatHoursMinutes(saved.TargetMinutes), saved.DayType)
	return printBudget(bg, ctx, saved.DayType)
}
