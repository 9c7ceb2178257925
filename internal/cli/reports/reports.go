package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
)

type ReportCmd struct {
	Range string `short:"r" help:"Window to report on (rolling|calendar). Defaults to the report range setting."`
	JSON  bool   `name:"json" help:"Print as JSON."`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	kind, err := RangeFor(bg, ctx, c.Range)
	if err != nil {
		return err
	}

	result, err := ctx.Reports(bg).Build(bg, kind)
	if err != nil {
		return err
	}
	suggestions := report.Suggest(result.Report, result.Plans)

	if c.JSON {
		data, err := json.MarshalIndent(struct {
			report.Report
			Suggestions []report.Suggestion `json:"suggestions"`
		}{result.Report, suggestions}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	Print(ctx, result.Report)
	if len(suggestions) > 0 {
		ctx.Println()
		ctx.Printf("%d target suggestion(s). Review them with 'dayspent optimize'.\n", len(suggestions))
	}
	return nil
}

// RangeFor parses an explicit range flag, falling back to the owner's setting.
func RangeFor(ctx context.Context, c *cli.Context, flag string) (scheduler.RangeKind, error) {
	if flag != "" {
		return scheduler.ParseRangeKind(flag)
	}
	settings, err := c.Settings(ctx)
	if err != nil {
		return "", err
	}
	return scheduler.ParseRangeKind(settings.DefaultReportRange)
}

// Print renders the category table and summary.
func Print(ctx *cli.Context, r report.Report) {
	w := r.Summary.Window
	ctx.Printf("%s report: %s to %s (%d days)\n\n", w.Kind, w.From, w.To, w.DayCount)

	rows := make([][]string, 0, len(r.Categories))
	for _, row := range r.Categories {
		rows = append(rows, []string{
			row.Label,
			fmt.Sprintf("%dm", row.PlannedDailyMinutes),
			fmt.Sprintf("%.0fm", row.ActualAvgMinutes),
			fmt.Sprintf("%+.0fm", row.DiffMinutes),
			fmt.Sprintf("%d/%d", row.PresentDays, w.DayCount),
			string(row.Consistency),
		})
	}
	ctx.Printf("%s", cli.Table([]string{"CATEGORY", "PLANNED", "ACTUAL", "DIFF", "DAYS", "CONSISTENCY"}, rows))
	ctx.Println()

	s := r.Summary
	ctx.Printf("Most overspent:  %s\n", label(s.MostOverspent))
	ctx.Printf("Most underspent: %s\n", label(s.MostUnderspent))
	ctx.Printf("Balance:         %s (%.2f)\n", s.BalanceIndex, s.BalanceScore)
	ctx.Printf("Avg tracked:     %s/day\n", s.FormattedAvgTime)
}

func label(c models.Category) string {
	if c == "" {
		return "-"
	}
	return c.Label()
}
