package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/babylog/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		start_at    TEXT NOT NULL,
		end_at      TEXT,
		amount      REAL,
		note        TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_activities_kind_start ON activities(kind, start_at);
	CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_at DESC);
	CREATE INDEX IF NOT EXISTS idx_activities_deleted ON activities(deleted_at);

	CREATE TABLE IF NOT EXISTS settings (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		data        TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		scheduled_at TEXT NOT NULL,
		message      TEXT NOT NULL,
		priority     TEXT NOT NULL,
		repeating    INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_scheduled ON reminders(scheduled_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Add validates and logs an activity.
func (s *SQLiteStore) Add(ctx context.Context, p AddParams) (*model.ActivityRecord, error) {
	if err := checkActivity(p.Kind, p.Start, p.End, p.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := model.ActivityRecord{
		ID:        s.newID(p.Start),
		Kind:      p.Kind,
		StartTime: p.Start.UTC().Truncate(time.Second),
		Amount:    p.Amount,
		Note:      strings.TrimSpace(p.Note),
		CreatedAt: now.Truncate(time.Second),
	}
	if p.End != nil {
		end := p.End.UTC().Truncate(time.Second)
		rec.EndTime = &end
	}

	if err := s.insert(ctx, s.db, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// checkActivity holds the rules every stored activity satisfies.
func checkActivity(kind model.Kind, start time.Time, end *time.Time, amount *float64) error {
	if !model.ValidKinds[kind] {
		return fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
	}
	if start.IsZero() {
		return fmt.Errorf("start time is required")
	}
	if end != nil && end.Before(start) {
		return fmt.Errorf("end time %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if amount != nil && *amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) insert(ctx context.Context, db execer, rec model.ActivityRecord) error {
	var endAt, note *string
	if rec.EndTime != nil {
		e := formatTime(*rec.EndTime)
		endAt = &e
	}
	if rec.Note != "" {
		note = &rec.Note
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO activities (id, kind, start_at, end_at, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), formatTime(rec.StartTime), endAt, rec.Amount, note,
		formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

const activityColumns = `id, kind, start_at, end_at, amount, note, created_at`

// Get retrieves a live activity by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.ActivityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ? AND deleted_at IS NULL`, id)
	rec, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns live activities newest first.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.ActivityRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(p.Kind))
	}
	if !p.Since.IsZero() {
		where = append(where, "start_at >= ?")
		args = append(args, formatTime(p.Since))
	}
	if !p.Until.IsZero() {
		where = append(where, "start_at <= ?")
		args = append(args, formatTime(p.Until))
	}

	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY start_at DESC, id DESC LIMIT ?`,
		activityColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryActivities(ctx, query, args...)
}

// All returns every live activity started at or after since, oldest first.
// This is the snapshot handed to the engine.
func (s *SQLiteStore) All(ctx context.Context, since time.Time) ([]model.ActivityRecord, error) {
	return s.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE deleted_at IS NULL AND start_at >= ?
		 ORDER BY start_at, id`, formatTime(since))
}

// Latest returns the most recently started live activity of kind.
func (s *SQLiteStore) Latest(ctx context.Context, kind model.Kind) (*model.ActivityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE kind = ? AND deleted_at IS NULL
		 ORDER BY start_at DESC, id DESC LIMIT 1`, string(kind))
	rec, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no %s activity: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Rm soft-deletes an activity, or removes it entirely when p.Hard is set.
func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	var res sql.Result
	var err error
	if p.Hard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, p.ID)
	} else {
		now := formatTime(time.Now())
		res, err = s.db.ExecContext(ctx,
			`UPDATE activities SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, p.ID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("activity %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryActivities(ctx context.Context, query string, args ...interface{}) ([]model.ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row scanner) (model.ActivityRecord, error) {
	var r model.ActivityRecord
	var kind, startAt, createdAt string
	var endAt, note sql.NullString
	var amount sql.NullFloat64

	err := row.Scan(&r.ID, &kind, &startAt, &endAt, &amount, &note, &createdAt)
	if err != nil {
		return r, err
	}

	r.Kind = model.Kind(kind)
	r.StartTime, _ = time.Parse(time.RFC3339, startAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if endAt.Valid {
		t, _ := time.Parse(time.RFC3339, endAt.String)
		r.EndTime = &t
	}
	if amount.Valid {
		a := amount.Float64
		r.Amount = &a
	}
	if note.Valid {
		r.Note = note.String
	}

	return r, nil
}
