package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

// DayCmd prints the dashboard for a date.
type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
	JSON bool   `name:"json" help:"Print as JSON."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" || date == "today" {
		date = tr.Today()
	}
	if date != tr.ViewDate() {
		if err := tr.SetViewDate(bg, date); err != nil {
			return err
		}
	}

	d, err := tr.Dashboard(bg)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dashboard: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	title := fmt.Sprintf("%s (%s)", d.Date, d.DayType)
	if d.Historical {
		title += " · read-only"
	}
	ctx.Println(title)

	if d.Historical && !d.HasLoggedTime {
		ctx.Println(cli.Muted("No time logged on this day."))
		return nil
	}

	rows := make([][]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		name := r.Plan.ActivityName
		if r.Active {
			name = "● " + name
		}
		rows = append(rows, []string{
			name,
			r.Plan.Category.Label(),
			utils.FormatElapsed(r.TotalSeconds),
			utils.FormatHoursMinutes(r.Plan.TargetMinutes),
			fmt.Sprintf("%.0f%%", r.Progress*100),
			string(r.Status),
		})
	}
	ctx.Printf("%s", cli.Table([]string{"ACTIVITY", "CATEGORY", "LOGGED", "TARGET", "PROGRESS", "STATUS"}, rows))
	ctx.Printf("Tracked %s · Untracked %s\n", utils.FormatElapsed(d.TrackedSeconds), utils.FormatHoursMinutes(d.UntrackedMinutes))
	return nil
}
