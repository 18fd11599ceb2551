package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/babylog/internal/settings"
)

// LoadSettings returns the saved reminder settings, or the defaults when none
// have been saved.
func (s *SQLiteStore) LoadSettings(ctx context.Context) (settings.ReminderSettings, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.ReminderSettings{}, err
	}

	var rs settings.ReminderSettings
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return settings.ReminderSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return rs, nil
}

// SaveSettings validates and stores the reminder settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, rs settings.ReminderSettings) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(b), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
