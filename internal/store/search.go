package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/babylog/internal/model"
)

// SearchParams holds parameters for searching activity notes.
type SearchParams struct {
	Query string
	Kind  model.Kind
	Limit int
}

// Search finds live activities whose note contains the query substring,
// newest first.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.ActivityRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"deleted_at IS NULL", "note LIKE ?"}
	args := []interface{}{"%" + p.Query + "%"}

	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(p.Kind))
	}

	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY start_at DESC LIMIT ?`,
		activityColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryActivities(ctx, query, args...)
}
