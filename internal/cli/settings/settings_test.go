package settings

import (
	"context"
	"strings"
	"testing"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli/clitest"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
)

func TestSettingsCmd_List(t *testing.T) {
	env := clitest.New(t)

	cmd := &SettingsCmd{
		List: true,
	}

	if err := cmd.Run(env.Ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Timezone:           UTC") {
		t.Errorf("expected timezone in output, got:\n%s", env.Out.String())
	}
}

func TestSettingsCmd_UpdateTimezone(t *testing.T) {
	env := clitest.New(t)

	tz := "America/New_York"
	cmd := &SettingsCmd{
		Timezone: &tz,
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	updated, err := env.Store.GetSettings(context.Background(), clitest.Owner)
	if err != nil {
		t.Fatalf("failed to get updated settings: %v", err)
	}
	if updated.Timezone != tz {
		t.Errorf("expected Timezone to be %q, got %q", tz, updated.Timezone)
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tz := "Nowhere/Special"
	if err := (&SettingsCmd{Timezone: &tz}).Validate(); err == nil {
		t.Error("expected error for invalid timezone, got nil")
	}

	rng := "monthly"
	if err := (&SettingsCmd{ReportRange: &rng}).Validate(); err == nil {
		t.Error("expected error for invalid report range, got nil")
	}
}

func TestSettingsCmd_UpdateMultiple(t *testing.T) {
	env := clitest.New(t)

	rng := "Calendar"
	notify := true
	cmd := &SettingsCmd{
		ReportRange:    &rng,
		NotifyOnTarget: &notify,
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	updated, err := env.Store.GetSettings(context.Background(), clitest.Owner)
	if err != nil {
		t.Fatalf("failed to get updated settings: %v", err)
	}
	if updated.DefaultReportRange != "calendar" {
		t.Errorf("expected DefaultReportRange to be calendar, got %q", updated.DefaultReportRange)
	}
	if !updated.NotifyOnTarget {
		t.Error("expected NotifyOnTarget to be true")
	}
	if updated.Timezone != "UTC" {
		t.Errorf("expected Timezone to stay UTC, got %q", updated.Timezone)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	env := clitest.New(t)

	if err := (&SettingsCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("settings run failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No changes specified") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
}

func TestSettingsCmd_SignedOut(t *testing.T) {
	env := clitest.New(t)
	env.Ctx.Identity = identity.Static("")

	if err := (&SettingsCmd{List: true}).Run(env.Ctx); err == nil {
		t.Error("expected an error when signed out")
	}
}
