package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

// Replace swaps the outstanding reminders for the given batch in a single
// transaction, so a failure leaves the previous batch untouched. It satisfies
// reminder.NotificationSink.
func (s *SQLiteStore) Replace(ctx context.Context, reminders []model.Reminder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}

	now := formatTime(time.Now())
	for _, r := range reminders {
		repeating := 0
		if r.Repeating {
			repeating = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reminders (id, kind, scheduled_at, message, priority, repeating, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Kind), formatTime(r.ScheduledTime), r.Message, string(r.Priority), repeating, now)
		if err != nil {
			return fmt.Errorf("insert reminder %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Pending returns the outstanding reminders ordered by scheduled time.
func (s *SQLiteStore) Pending(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, scheduled_at, message, priority, repeating
		 FROM reminders ORDER BY scheduled_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var kind, scheduledAt, priority string
		var repeating int
		if err := rows.Scan(&r.ID, &kind, &scheduledAt, &r.Message, &priority, &repeating); err != nil {
			return nil, err
		}
		r.Kind = model.Kind(kind)
		r.Priority = model.Priority(priority)
		r.ScheduledTime, _ = time.Parse(time.RFC3339, scheduledAt)
		r.Repeating = repeating != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
