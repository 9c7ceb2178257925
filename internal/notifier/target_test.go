package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/clock"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

type recordingSender struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (r *recordingSender) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return r.err
}

func (r *recordingSender) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func row(base, live int64, target int, active bool) models.PlanProgress {
	return models.PlanProgress{
		Plan:        models.Plan{ID: "p1", ActivityName: "Reading", TargetMinutes: target},
		BaseSeconds: base,
		LiveSeconds: live,
		Active:      active,
	}
}

func TestTargetAlertsCheck(t *testing.T) {
	sender := &recordingSender{}
	alerts := NewTargetAlerts(sender)
	ctx := context.Background()

	if alerts.Check(ctx, "s1", row(0, 1000, 30, true)) {
		t.Error("should not fire below target")
	}
	if !alerts.Check(ctx, "s1", row(0, 1800, 30, true)) {
		t.Error("should fire at target")
	}
	if alerts.Check(ctx, "s1", row(0, 1900, 30, true)) {
		t.Error("should fire once per session")
	}
	if alerts.Check(ctx, "s2", row(0, 5000, 30, false)) {
		t.Error("inactive rows never fire")
	}

	got := sender.sent()
	if len(got) != 1 || got[0] != "Reading target reached" {
		t.Errorf("sent = %v", got)
	}
}

func TestTargetAlertsDeliveryFailureStillCounts(t *testing.T) {
	sender := &recordingSender{err: errors.New("tray down")}
	alerts := NewTargetAlerts(sender)
	if !alerts.Check(context.Background(), "s1", row(1200, 600, 30, true)) {
		t.Error("expected an attempt")
	}
	if alerts.Check(context.Background(), "s1", row(1200, 700, 30, true)) {
		t.Error("failed delivery should not be retried every tick")
	}
}

func TestCheckDashboard(t *testing.T) {
	sender := &recordingSender{}
	alerts := NewTargetAlerts(sender)

	d := tracker.Dashboard{
		Running: &models.RunningSession{SessionID: "s1", PlanID: "p1"},
		Rows:    []models.PlanProgress{row(0, 0, 10, false), row(300, 300, 10, true)},
	}
	if !alerts.CheckDashboard(context.Background(), d) {
		t.Error("expected notification for active row")
	}
	if alerts.CheckDashboard(context.Background(), tracker.Dashboard{}) {
		t.Error("idle dashboard should not notify")
	}
}

func TestWatchNotifiesRunningSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "watch.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	plan, err := store.UpsertPlan(ctx, models.Plan{
		OwnerID: "owner", ActivityName: "Reading", DayType: models.DayTypeWeekday,
		Category: models.CategoryLearning, TargetMinutes: 1, Active: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	clk := clock.NewFixed(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	tr := tracker.New(store, identity.Static("owner"), tracker.Options{Clock: clk, Location: time.UTC})
	if _, err := tr.Start(ctx, plan.ID, plan.ActivityName); err != nil {
		t.Fatal(err)
	}
	clk.Advance(2 * time.Minute)

	sender := &recordingSender{}
	alerts := NewTargetAlerts(sender)

	done := make(chan error, 1)
	go func() { done <- alerts.Watch(ctx, tr, 10*time.Millisecond) }()

	deadline := time.After(3 * time.Second)
	for len(sender.sent()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no notification sent")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if got := sender.sent(); len(got) != 1 {
		t.Errorf("expected one notification, got %v", got)
	}
}
