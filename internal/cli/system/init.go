package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/postgres"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(bg); err != nil {
		return err
	}
	ctx.Printf("Initialized dayspent storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(bg, ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for the SQLite store")
	}
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if !storage.IsPostgresDSN(source) {
		return sqlite.NewStore(source), nil
	}
	if valid, err := postgres.ValidateConnString(source); !valid {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
		}
		return nil, err
	}
	return postgres.New(source), nil
}

// allDates spans every stored activity date.
var allDates = models.DateRange{From: "0000-01-01", To: "9999-12-31"}

// copyData copies users, settings, plans and sessions. Plan ids are kept so
// sessions stay attributed; session ids are reassigned by the destination.
func (c *InitCmd) copyData(ctx context.Context, cc *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(ctx); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()
	dst := cc.Store

	users, err := src.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to get users from source: %w", err)
	}

	var planCount, sessionCount int
	for _, u := range users {
		if _, err := dst.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to add user %s: %w", u.ID, err)
		}

		settings, err := src.GetSettings(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to get settings for %s: %w", u.ID, err)
		}
		if err := dst.SaveSettings(ctx, u.ID, settings); err != nil {
			return fmt.Errorf("failed to save settings for %s: %w", u.ID, err)
		}

		plans, err := src.ListPlans(ctx, u.ID, true)
		if err != nil {
			return fmt.Errorf("failed to get plans from source: %w", err)
		}
		for _, p := range plans {
			if _, err := dst.UpsertPlan(ctx, p); err != nil {
				return fmt.Errorf("failed to save plan %s: %w", p.ID, err)
			}
		}
		planCount += len(plans)

		sessions, err := src.ListClosedSessions(ctx, u.ID, allDates)
		if err != nil {
			return fmt.Errorf("failed to get sessions from source: %w", err)
		}
		open, err := src.FindOpenSession(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to get open session from source: %w", err)
		}
		if open != nil {
			sessions = append(sessions, *open)
		}
		for _, s := range sessions {
			if err := copySession(ctx, dst, s); err != nil {
				return err
			}
		}
		sessionCount += len(sessions)
	}

	cc.Printf("    Copied %d users, %d plans, %d sessions\n", len(users), planCount, sessionCount)
	return nil
}

func copySession(ctx context.Context, dst storage.Provider, s models.ActivitySession) error {
	created, err := dst.CreateSession(ctx, models.NewSession{
		OwnerID:      s.OwnerID,
		PlanID:       s.PlanID,
		ActivityName: s.ActivityName,
		ActivityDate: s.ActivityDate,
		StartTime:    s.StartTime,
	})
	if err != nil {
		return fmt.Errorf("failed to add session %s: %w", s.ID, err)
	}
	if s.IsOpen() {
		return nil
	}
	if err := dst.CloseSession(ctx, created.ID, *s.EndTime, s.Seconds()); err != nil {
		return fmt.Errorf("failed to close session %s: %w", s.ID, err)
	}
	return nil
}
