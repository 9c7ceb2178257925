package optimize

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli/reports"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type OptimizeCmd struct {
	Range       string `short:"r" help:"Window to analyze (rolling|calendar). Defaults to the report range setting."`
	Interactive bool   `help:"Interactively review and apply suggestions." default:"false"`
	Apply       bool   `help:"Apply all target suggestions without confirmation." default:"false"`
}

func (c *OptimizeCmd) Validate() error {
	if c.Interactive && c.Apply {
		return fmt.Errorf("--interactive and --apply cannot be used together")
	}
	return nil
}

func (c *OptimizeCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	kind, err := reports.RangeFor(bg, ctx, c.Range)
	if err != nil {
		return err
	}
	result, err := ctx.Reports(bg).Build(bg, kind)
	if err != nil {
		return err
	}

	suggestions := report.Suggest(result.Report, result.Plans)
	if len(suggestions) == 0 {
		ctx.Println("✅ No suggestions. Your plans match how you spend your time.")
		return nil
	}

	w := result.Summary.Window
	ctx.Printf("📊 %d suggestion(s) from %s to %s:\n\n", len(suggestions), w.From, w.To)
	for i, s := range suggestions {
		display(ctx, i+1, s)
	}

	switch {
	case c.Apply:
		return c.applyAll(bg, ctx, suggestions)
	case c.Interactive:
		return c.runInteractive(bg, ctx, suggestions)
	}

	ctx.Println("💡 To apply these suggestions:")
	ctx.Println("  - Use --interactive to review and select which to apply")
	ctx.Println("  - Use --apply to apply all automatically")
	return nil
}

func (c *OptimizeCmd) applyAll(ctx context.Context, cc *cli.Context, suggestions []report.Suggestion) error {
	cc.Println("🚀 Applying suggestions...")
	applied, total := 0, 0
	for _, s := range suggestions {
		if s.Type == report.SuggestAddPlan {
			continue
		}
		total++
		if err := apply(ctx, cc, s); err != nil {
			cc.Printf("  ❌ %s: %v\n", s.ActivityName, err)
			continue
		}
		applied++
		cc.Printf("  ✅ %s → %s\n", s.ActivityName, utils.FormatHoursMinutes(s.SuggestedMinutes))
	}
	cc.Printf("\n✨ Applied %d/%d target changes.\n", applied, total)
	return nil
}

func (c *OptimizeCmd) runInteractive(ctx context.Context, cc *cli.Context, suggestions []report.Suggestion) error {
	applied, skipped := 0, 0

	for i, s := range suggestions {
		if s.Type == report.SuggestAddPlan {
			continue
		}
		cc.Printf("\n[%d/%d] ", i+1, len(suggestions))
		display(cc, 0, s)

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Apply this change?").
					Options(
						huh.NewOption("Apply", "apply"),
						huh.NewOption("Skip", "skip"),
						huh.NewOption("Skip remaining", "skip_all"),
					).
					Value(&choice),
			),
		).WithTheme(huh.ThemeBase())

		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}

		switch choice {
		case "apply":
			if err := apply(ctx, cc, s); err != nil {
				cc.Printf("  ❌ Failed to apply: %v\n", err)
			} else {
				cc.Println("  ✅ Applied")
				applied++
			}
		case "skip":
			skipped++
		case "skip_all":
			skipped += len(suggestions) - i
			cc.Printf("\n✨ Completed: %d applied, %d skipped\n", applied, skipped)
			return nil
		}
	}

	cc.Printf("\n✨ Completed: %d applied, %d skipped\n", applied, skipped)
	return nil
}

func display(ctx *cli.Context, num int, s report.Suggestion) {
	prefix := ""
	if num > 0 {
		prefix = fmt.Sprintf("%d. ", num)
	}

	switch s.Type {
	case report.SuggestIncreaseTarget:
		ctx.Printf("%s⬆️  Increase %s\n", prefix, s.ActivityName)
	case report.SuggestReduceTarget:
		ctx.Printf("%s⬇️  Reduce %s\n", prefix, s.ActivityName)
	case report.SuggestAddPlan:
		ctx.Printf("%s➕ Add a %s plan\n", prefix, s.Category.Label())
	}
	ctx.Printf("   Reason: %s\n", s.Reason)
	if s.Type == report.SuggestAddPlan {
		ctx.Printf("   Suggested: %s/day (dayspent plan add <name> -c %s -t %d)\n",
			utils.FormatHoursMinutes(s.SuggestedMinutes), s.Category, s.SuggestedMinutes)
	} else {
		ctx.Printf("   Target: %s → %s\n", utils.FormatHoursMinutes(s.CurrentMinutes), utils.FormatHoursMinutes(s.SuggestedMinutes))
	}
	ctx.Println()
}

// apply writes a target change through the planner so budgets are enforced.
func apply(ctx context.Context, c *cli.Context, s report.Suggestion) error {
	svc := c.Plans()
	plan, err := svc.Get(ctx, s.PlanID)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}
	plan.TargetMinutes = s.SuggestedMinutes
	if _, err := svc.Save(ctx, plan); err != nil {
		return err
	}
	return nil
}
