package plans

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type PlanAddCmd struct {
	Name     string `arg:"" help:"Activity name."`
	DayType  string `short:"d" name:"day-type" help:"Day type (weekday|weekend|holiday)." required:""`
	Category string `short:"c" help:"Category (work|health|sleep|essentials|leisure|learning)." required:""`
	Target   int    `short:"t" help:"Daily target in minutes." required:""`
}

func (c *PlanAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("activity name must not be empty")
	}
	if _, err := models.ParseDayType(c.DayType); err != nil {
		return err
	}
	if !models.Category(c.Category).Valid() {
		return fmt.Errorf("invalid category: %q", c.Category)
	}
	if c.Target <= 0 || c.Target > constants.MinutesPerDay {
		return fmt.Errorf("target must be between 1 and %d minutes", constants.MinutesPerDay)
	}
	return nil
}

func (c *PlanAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	dayType, err := models.ParseDayType(c.DayType)
	if err != nil {
		return err
	}

	plan, err := ctx.Plans().Save(bg, models.Plan{
		ActivityName:  strings.TrimSpace(c.Name),
		DayType:       dayType,
		Category:      models.NormalizeCategory(models.Category(c.Category)),
		TargetMinutes: c.Target,
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added plan: %s, %s on %ss (ID: %s)\n", plan.ActivityName, utils.FormatHoursMinutes(plan.TargetMinutes), plan.DayType, plan.ID)
	return printBudget(bg, ctx, plan.DayType)
}

func printBudget(ctx context.Context, c *cli.Context, dayType models.DayType) error {
	budgets, err := c.Plans().Budgets(ctx)
	if err != nil {
		return err
	}
	for _, b := range budgets {
		if b.DayType == dayType {
			c.Println(cli.Muted(fmt.Sprintf("%s budget: %s, %s free", b.DayType, b, utils.FormatHoursMinutes(b.Remaining))))
		}
	}
	return nil
}
