package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/backup"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/clock"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/config"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/migration"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/sqlite"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Identity identity.Provider
	Config   *config.Config
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // exposed on /metrics by serve
	Clock    clock.Clock // nil uses the system clock in the owner's timezone
	Out      io.Writer   // nil writes to stdout
	In       io.Reader   // nil reads from stdin

	tracker *tracker.Tracker
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Stdout(), args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

// Owner returns the signed-in owner id.
func (c *Context) Owner(ctx context.Context) (string, error) {
	owner, err := c.Identity.CurrentIdentity(ctx)
	if errors.Is(err, apperrors.ErrNotAuthenticated) {
		return "", fmt.Errorf("%w: run 'dayspent login' or 'dayspent register' first", err)
	}
	return owner, err
}

// SignIn records ownerID as the current identity.
func (c *Context) SignIn(ownerID string) error {
	if err := identity.SignIn(ownerID); err != nil {
		return err
	}
	if os.Getenv(constants.EnvOwner) != "" {
		logger.Warn("DAYSPENT_OWNER is set and takes precedence over the keyring identity")
	}
	c.tracker = nil
	return nil
}

func (c *Context) SignOut() error {
	c.tracker = nil
	return identity.SignOut()
}

// Settings loads the owner's stored settings, falling back to defaults when signed out.
func (c *Context) Settings(ctx context.Context) (models.Settings, error) {
	owner, err := c.Identity.CurrentIdentity(ctx)
	if errors.Is(err, apperrors.ErrNotAuthenticated) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	settings, err := c.Store.GetSettings(ctx, owner)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Location resolves the owner's timezone setting. Unknown zones fall back to local time.
func (c *Context) Location(ctx context.Context) *time.Location {
	settings, err := c.Settings(ctx)
	if err != nil {
		return time.Local
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("invalid timezone setting, using local time", "timezone", settings.Timezone, "error", err)
		return time.Local
	}
	return loc
}

func (c *Context) clockFor(loc *time.Location) clock.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return clock.System{Loc: loc}
}

// Tracker returns the session tracker, bootstrapped on first use.
func (c *Context) Tracker(ctx context.Context) (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	loc := c.Location(ctx)
	opts := tracker.Options{
		Clock:    c.clockFor(loc),
		Location: loc,
		Metrics:  c.Metrics,
	}
	if c.Config != nil {
		opts.HistoryLimit = c.Config.HistoryLimit
	}
	t := tracker.New(c.Store, c.Identity, opts)
	if err := t.Bootstrap(ctx); err != nil {
		return nil, err
	}
	c.tracker = t
	return t, nil
}

func (c *Context) Reports(ctx context.Context) *report.Engine {
	loc := c.Location(ctx)
	return report.NewEngine(c.Store, c.Identity, c.clockFor(loc), loc, c.Metrics)
}

func (c *Context) Plans() *planner.Service {
	return planner.NewService(c.Store, c.Identity, c.Metrics)
}

// TickInterval is the live timer cadence from config.
func (c *Context) TickInterval() time.Duration {
	if c.Config == nil || c.Config.TickInterval <= 0 {
		return time.Second
	}
	return c.Config.TickInterval
}

// SyncInterval is how often watch loops re-read the store.
func (c *Context) SyncInterval() time.Duration {
	if c.Config == nil || c.Config.SyncInterval <= 0 {
		return constants.DefaultSyncInterval
	}
	return c.Config.SyncInterval
}

// MigrationRunner returns the store's migration runner when the backend has one.
func (c *Context) MigrationRunner() (*migration.Runner, error) {
	r, ok := c.Store.(interface {
		MigrationRunner() (*migration.Runner, error)
	})
	if !ok {
		return nil, errors.New("storage backend does not support migrations")
	}
	return r.MigrationRunner()
}

// BackupManager returns a manager for SQLite stores, or nil for other backends.
func (c *Context) BackupManager() *backup.Manager {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table renders rows under a bold header with space-padded columns.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad(header)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(pad(row))
		b.WriteString("\n")
	}
	return b.String()
}

// Muted renders secondary text.
func Muted(s string) string {
	return mutedStyle.Render(s)
}
