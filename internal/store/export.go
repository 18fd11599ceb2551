package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

// ExportAll returns all live activities oldest first, optionally filtered by kind.
func (s *SQLiteStore) ExportAll(ctx context.Context, kind model.Kind) ([]model.ActivityRecord, error) {
	if kind == "" {
		return s.All(ctx, time.Time{})
	}
	return s.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE deleted_at IS NULL AND kind = ?
		 ORDER BY start_at, id`, string(kind))
}

// Import stores activities from an export in one transaction. Records keep
// their IDs; IDs already present are skipped. Returns how many were inserted.
func (s *SQLiteStore) Import(ctx context.Context, records []model.ActivityRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for i, r := range records {
		if err := checkActivity(r.Kind, r.StartTime, r.EndTime, r.Amount); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		if r.ID == "" {
			r.ID = s.newID(r.StartTime)
		} else {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE id = ?`, r.ID).Scan(&exists)
			if err != nil {
				return 0, fmt.Errorf("record %d: lookup %s: %w", i, r.ID, err)
			}
			if exists > 0 {
				continue
			}
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now()
		}

		if err := s.insert(ctx, tx, r); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
