package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
)

const planColumns = "id, owner_id, activity_name, day_type, category, target_minutes, active"

func (s *Store) ListActivePlans(ctx context.Context, ownerID string) ([]models.Plan, error) {
	return s.ListPlans(ctx, ownerID, false)
}

func (s *Store) ListPlans(ctx context.Context, ownerID string, includeInactive bool) ([]models.Plan, error) {
	query := "SELECT " + planColumns + " FROM plans WHERE owner_id = ?"
	if !includeInactive {
		query += " AND active = 1"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *Store) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+planColumns+" FROM plans WHERE id = ?", id)
	return scanPlan(row)
}

func (s *Store) UpsertPlan(ctx context.Context, plan models.Plan) (models.Plan, error) {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	plan.Category = models.NormalizeCategory(plan.Category)
	now := formatTime(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, owner_id, activity_name, day_type, category, target_minutes, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			activity_name = excluded.activity_name,
			day_type = excluded.day_type,
			category = excluded.category,
			target_minutes = excluded.target_minutes,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		plan.ID, plan.OwnerID, plan.ActivityName, string(plan.DayType), string(plan.Category),
		plan.TargetMinutes, boolToInt(plan.Active), now, now,
	)
	if err != nil {
		return models.Plan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	return plan, nil
}

func (s *Store) DeactivatePlan(ctx context.Context, planID string) error {
	return s.setPlanActive(ctx, planID, false)
}

func (s *Store) ReactivatePlan(ctx context.Context, planID string) error {
	return s.setPlanActive(ctx, planID, true)
}

func (s *Store) setPlanActive(ctx context.Context, planID string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE plans SET active = ?, updated_at = ? WHERE id = ?",
		boolToInt(active), formatTime(time.Now()), planID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func scanPlan(row scanner) (models.Plan, error) {
	var p models.Plan
	var dayType, category string
	var active int
	if err := row.Scan(&p.ID, &p.OwnerID, &p.ActivityName, &dayType, &category, &p.TargetMinutes, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Plan{}, storage.ErrNotFound
		}
		return models.Plan{}, err
	}
	p.DayType = models.DayType(dayType)
	p.Category = models.NormalizeCategory(models.Category(category))
	p.Active = active != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
