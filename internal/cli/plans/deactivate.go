package plans

import (
	"context"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
)

// PlanDeactivateCmd soft-deletes a plan. Logged sessions keep their history.
type PlanDeactivateCmd struct {
	ID  string `arg:"" help:"Plan ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *PlanDeactivateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc := ctx.Plans()

	plan, err := svc.Get(bg, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find plan %s: %w", c.ID, err)
	}
	if !plan.Active {
		ctx.Printf("Plan %s is already inactive.\n", plan.ActivityName)
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Deactivate %s (%s)?", plan.ActivityName, plan.DayType))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if err := svc.Deactivate(bg, plan.ID); err != nil {
		return fmt.Errorf("failed to deactivate plan: %w", err)
	}
	ctx.PerformAutomaticBackup()

	ctx.Printf("Deactivated plan: %s\n", plan.ActivityName)
	return nil
}

type PlanRestoreCmd struct {
	ID string `arg:"" help:"ID of the plan to restore."`
}

func (c *PlanRestoreCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc := ctx.Plans()

	if err := svc.Restore(bg, c.ID); err != nil {
		return fmt.Errorf("failed to restore plan: %w", err)
	}

	plan, err := svc.Get(bg, c.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Restored plan: %s\n", plan.ActivityName)
	return printBudget(bg, ctx, plan.DayType)
}
