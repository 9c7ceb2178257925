package settings

import (
	"context"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone       *string `help:"IANA timezone for day boundaries, or 'Local'."`
	ReportRange    *string `name:"report-range" help:"Default report window (rolling|calendar)."`
	NotifyOnTarget *bool   `name:"notify-on-target" help:"Notify when a running session reaches its target."`
}

func (c *SettingsCmd) Validate() error {
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone: %q", *c.Timezone)
	}
	if c.ReportRange != nil {
		if _, err := scheduler.ParseRangeKind(*c.ReportRange); err != nil {
			return err
		}
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:           %s\n", settings.Timezone)
		ctx.Printf("  Report Range:       %s\n", settings.DefaultReportRange)
		ctx.Printf("  Notify On Target:   %v\n", settings.NotifyOnTarget)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.ReportRange != nil {
		kind, _ := scheduler.ParseRangeKind(*c.ReportRange)
		settings.DefaultReportRange = string(kind)
		updated = true
	}
	if c.NotifyOnTarget != nil {
		settings.NotifyOnTarget = *c.NotifyOnTarget
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(bg, owner, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
