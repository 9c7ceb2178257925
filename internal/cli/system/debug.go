package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpPlan     *DebugDumpPlanCmd     `cmd:"" help:"Dump plan data as JSON."`
	DumpSessions *DebugDumpSessionsCmd `cmd:"" help:"Dump the sessions of a day as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
	DumpUser     *DebugDumpUserCmd     `cmd:"" help:"Dump the signed-in user as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpPlanCmd struct {
	ID string `arg:"" help:"ID of the plan to dump."`
}

func (cmd *DebugDumpPlanCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Plans().Get(context.Background(), cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("plan not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get plan: %w", err)
	}
	return printJSON(ctx, plan)
}

type DebugDumpSessionsCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD or 'today')." default:"today"`
}

type sessionDump struct {
	Date   string                   `json:"date"`
	Closed []models.ActivitySession `json:"closed"`
	Open   *models.ActivitySession  `json:"open,omitempty"`
}

func (cmd *DebugDumpSessionsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	date := cmd.Date
	if date == "today" {
		date = tr.Today()
	}
	if !utils.ValidateDate(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	closed, err := ctx.Store.ListClosedSessions(bg, owner, models.DateRange{From: date, To: date})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	dump := sessionDump{Date: date, Closed: closed}
	if closed == nil {
		dump.Closed = []models.ActivitySession{}
	}

	open, err := ctx.Store.FindOpenSession(bg, owner)
	if err != nil {
		return fmt.Errorf("failed to find open session: %w", err)
	}
	if open != nil && open.ActivityDate == date {
		dump.Open = open
	}
	return printJSON(ctx, dump)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings(context.Background())
	if err != nil {
		return err
	}
	return printJSON(ctx, settings)
}

type DebugDumpUserCmd struct{}

func (cmd *DebugDumpUserCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}
	user, err := ctx.Store.GetUser(bg, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user not found: %s", owner)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return printJSON(ctx, user)
}
