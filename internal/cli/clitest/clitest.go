// Package clitest builds command contexts over a temporary SQLite store.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/clock"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/config"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
)

const Owner = "owner-1"

// Monday 2024-01-08 10:00 UTC.
var Start = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

type Env struct {
	Ctx   *cli.Context
	Store *sqlite.Store
	Clock *clock.Fixed
	Out   *bytes.Buffer
}

// New returns a signed-in context with a UTC timezone setting.
func New(t *testing.T) *Env {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	if _, err := store.CreateUser(ctx, models.User{ID: Owner, Name: "Test User", Email: "test@example.com"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(ctx, Owner, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	out := &bytes.Buffer{}
	clk := clock.NewFixed(Start)
	cfg := config.DefaultConfig()
	cfg.TickInterval = time.Millisecond
	cfg.SyncInterval = time.Millisecond
	return &Env{
		Ctx: &cli.Context{
			Store:    store,
			Identity: identity.Static(Owner),
			Config:   cfg,
			Clock:    clk,
			Out:      out,
		},
		Store: store,
		Clock: clk,
		Out:   out,
	}
}

// AddPlan stores an active plan for the test owner.
func (e *Env) AddPlan(t *testing.T, name string, dayType models.DayType, cat models.Category, target int) models.Plan {
	t.Helper()
	p, err := e.Store.UpsertPlan(context.Background(), models.Plan{
		OwnerID:       Owner,
		ActivityName:  name,
		DayType:       dayType,
		Category:      cat,
		TargetMinutes: target,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("failed to add plan: %v", err)
	}
	return p
}

// LogSession stores a closed session of minutes on date, starting at 08:00 UTC.
func (e *Env) LogSession(t *testing.T, plan models.Plan, date string, minutes int) {
	t.Helper()
	ctx := context.Background()
	start, err := time.Parse("2006-01-02 15:04", date+" 08:00")
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	s, err := e.Store.CreateSession(ctx, models.NewSession{
		OwnerID:      Owner,
		PlanID:       plan.ID,
		ActivityName: plan.ActivityName,
		ActivityDate: date,
		StartTime:    start,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	secs := int64(minutes) * 60
	if err := e.Store.CloseSession(ctx, s.ID, start.Add(time.Duration(secs)*time.Second), secs); err != nil {
		t.Fatalf("failed to close session: %v", err)
	}
}

// LogWeek logs minutes against plan on each of the seven days ending at Start.
func (e *Env) LogWeek(t *testing.T, plan models.Plan, minutes int) {
	t.Helper()
	for i := 6; i >= 0; i-- {
		e.LogSession(t, plan, Start.AddDate(0, 0, -i).Format("2006-01-02"), minutes)
	}
}
