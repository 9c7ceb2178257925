package storage

import (
	"context"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

// Provider is the persistence collaborator for plans, sessions, users and settings.
// Implementations return ErrNotFound for missing rows.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	// Settings are stored per owner as key/value rows.
	GetSettings(ctx context.Context, ownerID string) (models.Settings, error)
	SaveSettings(ctx context.Context, ownerID string, settings models.Settings) error

	// Plans
	ListActivePlans(ctx context.Context, ownerID string) ([]models.Plan, error)
	ListPlans(ctx context.Context, ownerID string, includeInactive bool) ([]models.Plan, error)
	GetPlan(ctx context.Context, id string) (models.Plan, error)
	// UpsertPlan inserts the plan, assigning an ID when empty, or replaces the
	// stored row with the same ID. Budget validation happens before this call.
	UpsertPlan(ctx context.Context, plan models.Plan) (models.Plan, error)
	DeactivatePlan(ctx context.Context, planID string) error
	ReactivatePlan(ctx context.Context, planID string) error

	// Sessions
	// FindOpenSession returns the most recently started open session, or nil.
	FindOpenSession(ctx context.Context, ownerID string) (*models.ActivitySession, error)
	// CreateSession opens a session. It returns ErrOpenSessionExists when the
	// owner already has one open.
	CreateSession(ctx context.Context, s models.NewSession) (models.ActivitySession, error)
	CloseSession(ctx context.Context, sessionID string, endTime time.Time, durationSeconds int64) error
	ListClosedSessions(ctx context.Context, ownerID string, dates models.DateRange) ([]models.ActivitySession, error)
	// GetDailyTotal returns the closed-session total for a date, or nil when nothing was logged.
	GetDailyTotal(ctx context.Context, ownerID, date string) (*models.DailyTotal, error)
	PlanTotalsForDate(ctx context.Context, ownerID, date string) ([]models.PlanTotal, error)
	// OpenSessionCounts maps each owner to its number of open sessions (diagnostics).
	OpenSessionCounts(ctx context.Context) (map[string]int, error)

	// Utils
	GetConfigPath() string
}
