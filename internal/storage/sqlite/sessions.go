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

const sessionColumns = "id, owner_id, plan_id, activity_name, activity_date, start_time, end_time, duration_seconds"

func (s *Store) FindOpenSession(ctx context.Context, ownerID string) (*models.ActivitySession, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM activity_sessions WHERE owner_id = ? AND end_time IS NULL ORDER BY start_time DESC LIMIT 1",
		ownerID,
	)
	sess, err := scanSession(row)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) CreateSession(ctx context.Context, ns models.NewSession) (models.ActivitySession, error) {
	sess := models.ActivitySession{
		ID:           uuid.New().String(),
		OwnerID:      ns.OwnerID,
		PlanID:       ns.PlanID,
		ActivityName: ns.ActivityName,
		ActivityDate: ns.ActivityDate,
		StartTime:    ns.StartTime,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activity_sessions (id, owner_id, plan_id, activity_name, activity_date, start_time) VALUES (?, ?, ?, ?, ?, ?)",
		sess.ID, sess.OwnerID, sess.PlanID, sess.ActivityName, sess.ActivityDate, formatTime(sess.StartTime),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ActivitySession{}, storage.ErrOpenSessionExists
		}
		return models.ActivitySession{}, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// CloseSession stamps end time and duration on an open session. Closed sessions are immutable.
func (s *Store) CloseSession(ctx context.Context, sessionID string, endTime time.Time, durationSeconds int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE activity_sessions SET end_time = ?, duration_seconds = ? WHERE id = ? AND end_time IS NULL",
		formatTime(endTime), durationSeconds, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return expectOneRow(res)
}

func (s *Store) ListClosedSessions(ctx context.Context, ownerID string, dates models.DateRange) ([]models.ActivitySession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM activity_sessions WHERE owner_id = ? AND end_time IS NOT NULL AND activity_date >= ? AND activity_date <= ? ORDER BY start_time",
		ownerID, dates.From, dates.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ActivitySession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *Store) GetDailyTotal(ctx context.Context, ownerID, date string) (*models.DailyTotal, error) {
	var count int
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0) FROM activity_sessions WHERE owner_id = ? AND activity_date = ? AND end_time IS NOT NULL",
		ownerID, date,
	).Scan(&count, &total)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return &models.DailyTotal{ActivityDate: date, TotalSeconds: total}, nil
}

func (s *Store) PlanTotalsForDate(ctx context.Context, ownerID, date string) ([]models.PlanTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT plan_id, SUM(duration_seconds) FROM activity_sessions WHERE owner_id = ? AND activity_date = ? AND end_time IS NOT NULL GROUP BY plan_id ORDER BY plan_id",
		ownerID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.PlanTotal
	for rows.Next() {
		var pt models.PlanTotal
		if err := rows.Scan(&pt.PlanID, &pt.Seconds); err != nil {
			return nil, err
		}
		totals = append(totals, pt)
	}
	return totals, rows.Err()
}

func (s *Store) OpenSessionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT owner_id, COUNT(*) FROM activity_sessions WHERE end_time IS NULL GROUP BY owner_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var owner string
		var n int
		if err := rows.Scan(&owner, &n); err != nil {
			return nil, err
		}
		counts[owner] = n
	}
	return counts, rows.Err()
}

func scanSession(row scanner) (models.ActivitySession, error) {
	var sess models.ActivitySession
	var start string
	var end sql.NullString
	var dur sql.NullInt64
	if err := row.Scan(&sess.ID, &sess.OwnerID, &sess.PlanID, &sess.ActivityName, &sess.ActivityDate, &start, &end, &dur); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ActivitySession{}, storage.ErrNotFound
		}
		return models.ActivitySession{}, err
	}

	t, err := parseTime(start)
	if err != nil {
		return models.ActivitySession{}, err
	}
	sess.StartTime = t
	if end.Valid {
		e, err := parseTime(end.String)
		if err != nil {
			return models.ActivitySession{}, err
		}
		sess.EndTime = &e
	}
	if dur.Valid {
		d := dur.Int64
		sess.DurationSeconds = &d
	}
	return sess, nil
}
