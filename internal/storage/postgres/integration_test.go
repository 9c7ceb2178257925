package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
)

// TestStore_Integration tests PostgreSQL store with a real database
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://dayspent_user@localhost:5432/dayspent_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Unique owner per run so reruns against the same database do not collide.
	owner := "it-" + uuid.New().String()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings(ctx, owner)
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings != models.DefaultSettings() {
			t.Errorf("Expected default settings, got %+v", settings)
		}

		settings.DefaultReportRange = "calendar"
		if err := store.SaveSettings(ctx, owner, settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		updated, err := store.GetSettings(ctx, owner)
		if err != nil {
			t.Fatalf("Failed to get updated settings: %v", err)
		}
		if updated.DefaultReportRange != "calendar" {
			t.Errorf("Expected calendar range, got %s", updated.DefaultReportRange)
		}
	})

	var plan models.Plan
	t.Run("Plans", func(t *testing.T) {
		var err error
		plan, err = store.UpsertPlan(ctx, models.Plan{
			OwnerID:       owner,
			ActivityName:  "Reading",
			DayType:       models.DayTypeWeekday,
			Category:      models.CategoryLearning,
			TargetMinutes: 45,
			Active:        true,
		})
		if err != nil {
			t.Fatalf("Failed to upsert plan: %v", err)
		}

		plans, err := store.ListActivePlans(ctx, owner)
		if err != nil || len(plans) != 1 {
			t.Fatalf("ListActivePlans = %v, %v", plans, err)
		}

		if err := store.DeactivatePlan(ctx, plan.ID); err != nil {
			t.Fatalf("Failed to deactivate plan: %v", err)
		}
		plans, _ = store.ListActivePlans(ctx, owner)
		if len(plans) != 0 {
			t.Errorf("Expected no active plans, got %d", len(plans))
		}
		if err := store.ReactivatePlan(ctx, plan.ID); err != nil {
			t.Fatalf("Failed to reactivate plan: %v", err)
		}
	})

	t.Run("Sessions", func(t *testing.T) {
		start := time.Now().Add(-time.Hour).Truncate(time.Second)
		ns := models.NewSession{
			OwnerID:      owner,
			PlanID:       plan.ID,
			ActivityName: plan.ActivityName,
			ActivityDate: start.Format("2006-01-02"),
			StartTime:    start,
		}
		sess, err := store.CreateSession(ctx, ns)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if _, err := store.CreateSession(ctx, ns); !errors.Is(err, storage.ErrOpenSessionExists) {
			t.Fatalf("Expected ErrOpenSessionExists, got %v", err)
		}

		open, err := store.FindOpenSession(ctx, owner)
		if err != nil || open == nil || open.ID != sess.ID {
			t.Fatalf("FindOpenSession = %+v, %v", open, err)
		}

		if err := store.CloseSession(ctx, sess.ID, start.Add(30*time.Minute), 1800); err != nil {
			t.Fatalf("Failed to close session: %v", err)
		}
		total, err := store.GetDailyTotal(ctx, owner, ns.ActivityDate)
		if err != nil || total == nil || total.TotalSeconds != 1800 {
			t.Errorf("GetDailyTotal = %+v, %v", total, err)
		}
	})
}
