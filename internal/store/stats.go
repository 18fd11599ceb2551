package store

import (
	"context"
	"os"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string      `json:"db_path"`
	DBSizeBytes      int64       `json:"db_size_bytes"`
	TotalActivities  int         `json:"total_activities"`
	ActiveActivities int         `json:"active_activities"`
	PendingReminders int         `json:"pending_reminders"`
	Kinds            []KindStats `json:"kinds"`
}

// KindStats holds per-kind counts.
type KindStats struct {
	Kind  model.Kind `json:"kind"`
	Count int        `json:"count"`
	First time.Time  `json:"first"`
	Last  time.Time  `json:"last"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&st.TotalActivities)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE deleted_at IS NULL`).Scan(&st.ActiveActivities)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reminders`).Scan(&st.PendingReminders)

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) AS cnt, MIN(start_at), MAX(start_at)
		FROM activities WHERE deleted_at IS NULL
		GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ks KindStats
		var kind, first, last string
		if err := rows.Scan(&kind, &ks.Count, &first, &last); err != nil {
			return st, err
		}
		ks.Kind = model.Kind(kind)
		ks.First, _ = time.Parse(time.RFC3339, first)
		ks.Last, _ = time.Parse(time.RFC3339, last)
		st.Kinds = append(st.Kinds, ks)
	}

	return st, rows.Err()
}
