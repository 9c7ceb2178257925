package system

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/keyring"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(context.Context, *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Plan conflicts", needsDB: true, run: checkPlanBudgets},
	{name: "Open sessions", needsDB: true, run: checkOpenSessions},
	{name: "Timezone settings", needsDB: true, run: checkTimezones},
	{name: "Clock", run: checkClock},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(bg, ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(bg, ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx context.Context, c *cli.Context) error {
	if err := c.Store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := c.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(_ context.Context, c *cli.Context) error {
	runner, err := c.MigrationRunner()
	if err != nil {
		return err
	}
	st, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(_ context.Context, c *cli.Context) error {
	runner, err := c.MigrationRunner()
	if err != nil {
		return err
	}
	st, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'dayspent migrate')", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, c *cli.Context) error {
	mgr := c.BackupManager()
	if mgr == nil {
		return nil
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'dayspent backup create'")
	}
	return nil
}

// owners lists every registered user plus the signed-in identity.
func owners(ctx context.Context, c *cli.Context) ([]string, error) {
	users, err := c.Store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, u := range users {
		if !seen[u.ID] {
			seen[u.ID] = true
			ids = append(ids, u.ID)
		}
	}
	if c.Identity != nil {
		if id, err := c.Identity.CurrentIdentity(ctx); err == nil && !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func checkPlanBudgets(ctx context.Context, c *cli.Context) error {
	ids, err := owners(ctx, c)
	if err != nil {
		return err
	}
	v := validation.New()
	var problems []string
	for _, id := range ids {
		plans, err := c.Store.ListPlans(ctx, id, false)
		if err != nil {
			return fmt.Errorf("failed to list plans for %s: %w", id, err)
		}
		result := v.ValidatePlans(plans)
		for _, conflict := range result.Conflicts {
			problems = append(problems, fmt.Sprintf("%s: %s", id, conflict.Description))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d plan conflict(s), run 'dayspent validate':\n   %s", len(problems), strings.Join(problems, "\n   "))
	}
	return nil
}

func checkOpenSessions(ctx context.Context, c *cli.Context) error {
	counts, err := c.Store.OpenSessionCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count open sessions: %w", err)
	}
	var bad []string
	for owner, n := range counts {
		if n > 1 {
			bad = append(bad, fmt.Sprintf("%s has %d", owner, n))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("more than one open session: %s", strings.Join(bad, ", "))
	}
	return nil
}

func checkTimezones(ctx context.Context, c *cli.Context) error {
	ids, err := owners(ctx, c)
	if err != nil {
		return err
	}
	for _, id := range ids {
		settings, err := c.Store.GetSettings(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get settings for %s: %w", id, err)
		}
		if settings.Timezone != "" && !utils.ValidateTimezone(settings.Timezone) {
			return fmt.Errorf("%s has an unknown timezone %q", id, settings.Timezone)
		}
	}
	return nil
}

func checkClock(context.Context, *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(context.Context, *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; use DAYSPENT_OWNER to set the identity")
	}
	return nil
}

type ValidateCmd struct {
	Fix bool `help:"Deactivate duplicate plans, keeping one per activity and day type."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc := ctx.Plans()

	plans, err := svc.List(bg, false)
	if err != nil {
		return err
	}
	result := validation.New().ValidatePlans(plans)
	ctx.Print(result.FormatReport())
	if !result.HasConflicts() {
		ctx.Println()
		return nil
	}

	if !cmd.Fix {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}

	actions := validation.AutoFixDuplicatePlans(result.Conflicts, func(id string) error {
		return svc.Deactivate(bg, id)
	})
	for _, a := range actions {
		ctx.Printf("✓ %s\n", a.Action)
	}

	plans, err = svc.List(bg, false)
	if err != nil {
		return err
	}
	if remaining := validation.New().ValidatePlans(plans); remaining.HasConflicts() {
		ctx.Print(remaining.FormatReport())
		return fmt.Errorf("%d conflict(s) need manual attention", len(remaining.Conflicts))
	}
	ctx.Println("All conflicts fixed.")
	return nil
}
