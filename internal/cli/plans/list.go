package plans

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type PlanListCmd struct {
	All     bool   `short:"a" help:"Include deactivated plans."`
	DayType string `short:"d" name:"day-type" help:"Only show one day type."`
	JSON    bool   `name:"json" help:"Print as JSON."`
}

func (c *PlanListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc := ctx.Plans()

	dayTypes := models.DayTypes
	if c.DayType != "" {
		dt, err := models.ParseDayType(c.DayType)
		if err != nil {
			return err
		}
		dayTypes = []models.DayType{dt}
	}

	plans, err := svc.List(bg, c.All)
	if err != nil {
		return err
	}

	if c.JSON {
		var filtered []models.Plan
		for _, dt := range dayTypes {
			filtered = append(filtered, byDayType(plans, dt)...)
		}
		data, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plans: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	budgets, err := svc.Budgets(bg)
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		ctx.Println("No plans yet. Add one with 'dayspent plan add'.")
		return nil
	}

	for i, dt := range dayTypes {
		if i > 0 {
			ctx.Println()
		}
		header := string(dt)
		for _, b := range budgets {
			if b.DayType == dt {
				header = fmt.Sprintf("%s · %s", dt, b)
			}
		}
		ctx.Println(header)

		group := byDayType(plans, dt)
		if len(group) == 0 {
			ctx.Println(cli.Muted("  no plans"))
			continue
		}
		rows := make([][]string, 0, len(group))
		for _, p := range group {
			status := "active"
			if !p.Active {
				status = "inactive"
			}
			rows = append(rows, []string{p.ID, p.ActivityName, p.Category.Label(), utils.FormatHoursMinutes(p.TargetMinutes), status})
		}
		ctx.Printf("%s", cli.Table([]string{"ID", "ACTIVITY", "CATEGORY", "TARGET", "STATUS"}, rows))
	}
	return nil
}

// byDayType keeps inactive plans, unlike scheduler.PlansForDayType.
func byDayType(plans []models.Plan, dt models.DayType) []models.Plan {
	active := scheduler.PlansForDayType(plans, dt)
	var out []models.Plan
	out = append(out, active...)
	for _, p := range plans {
		if p.DayType == dt && !p.Active {
			out = append(out, p)
		}
	}
	return out
}
