package postgres

import (
	"context"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

func (s *Store) GetSettings(ctx context.Context, ownerID string) (models.Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings WHERE owner_id = $1", ownerID)
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(ctx context.Context, ownerID string, settings models.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO settings (owner_id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, key) DO UPDATE SET value = EXCLUDED.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.ExecContext(ctx, ownerID, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
