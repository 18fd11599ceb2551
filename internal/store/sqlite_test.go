package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/reminder"
	"github.com/rcliao/babylog/internal/settings"
)

var t0 = time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAdd(t *testing.T, s *SQLiteStore, p AddParams) *model.ActivityRecord {
	t.Helper()
	rec, err := s.Add(context.Background(), p)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return rec
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	end := t0.Add(40 * time.Minute)
	amount := 120.0
	rec, err := s.Add(ctx, AddParams{
		Kind: model.KindSleep, Start: t0, End: &end, Amount: &amount, Note: "  car seat nap ",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected non-empty ID")
	}
	if rec.Note != "car seat nap" {
		t.Errorf("expected trimmed note, got %q", rec.Note)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != model.KindSleep {
		t.Errorf("expected kind sleep, got %q", got.Kind)
	}
	if !got.StartTime.Equal(t0) {
		t.Errorf("expected start %v, got %v", t0, got.StartTime)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("expected end %v, got %v", end, got.EndTime)
	}
	if got.Amount == nil || *got.Amount != 120 {
		t.Errorf("expected amount 120, got %v", got.Amount)
	}
	if !got.EffectiveEnd().Equal(end) {
		t.Errorf("expected effective end %v, got %v", end, got.EffectiveEnd())
	}
}

func TestAddInstantaneous(t *testing.T) {
	s := newTestStore(t)
	rec := mustAdd(t, s, AddParams{Kind: model.KindWetDiaper, Start: t0})

	got, err := s.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EndTime != nil {
		t.Errorf("expected nil end time, got %v", got.EndTime)
	}
	if got.Amount != nil {
		t.Errorf("expected nil amount, got %v", *got.Amount)
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	before := t0.Add(-time.Minute)
	negative := -5.0

	cases := []struct {
		name string
		p    AddParams
	}{
		{"unknown kind", AddParams{Kind: "nap", Start: t0}},
		{"missing start", AddParams{Kind: model.KindMilk}},
		{"end before start", AddParams{Kind: model.KindSleep, Start: t0, End: &before}},
		{"negative amount", AddParams{Kind: model.KindMilk, Start: t0, Amount: &negative}},
	}
	for _, c := range cases {
		if _, err := s.Add(ctx, c.p); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestListAndAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0})
	mustAdd(t, s, AddParams{Kind: model.KindWetDiaper, Start: t0.Add(time.Hour)})
	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0.Add(3 * time.Hour)})

	all, _ := s.List(ctx, ListParams{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if !all[0].StartTime.Equal(t0.Add(3 * time.Hour)) {
		t.Errorf("expected newest first, got %v", all[0].StartTime)
	}

	milk, _ := s.List(ctx, ListParams{Kind: model.KindMilk})
	if len(milk) != 2 {
		t.Errorf("expected 2 milk, got %d", len(milk))
	}

	window, _ := s.List(ctx, ListParams{Since: t0.Add(30 * time.Minute), Until: t0.Add(2 * time.Hour)})
	if len(window) != 1 || window[0].Kind != model.KindWetDiaper {
		t.Errorf("expected only the diaper in range, got %v", window)
	}

	limited, _ := s.List(ctx, ListParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 with limit, got %d", len(limited))
	}

	snapshot, err := s.All(ctx, time.Time{})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(snapshot) != 3 || !snapshot[0].StartTime.Equal(t0) {
		t.Errorf("expected oldest first snapshot, got %v", snapshot)
	}

	recent, _ := s.All(ctx, t0.Add(time.Hour))
	if len(recent) != 2 {
		t.Errorf("expected 2 since +1h, got %d", len(recent))
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0.Add(2 * time.Hour)})
	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0})

	got, err := s.Latest(ctx, model.KindMilk)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !got.StartTime.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("expected latest start, got %v", got.StartTime)
	}

	_, err = s.Latest(ctx, model.KindBathTime)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0})
	if err := s.Rm(ctx, RmParams{ID: rec.ID}); err != nil {
		t.Fatalf("rm: %v", err)
	}

	_, err := s.Get(ctx, rec.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after soft delete, got %v", err)
	}
	list, _ := s.List(ctx, ListParams{})
	if len(list) != 0 {
		t.Errorf("expected deleted activity to be hidden, got %d", len(list))
	}

	if err := s.Rm(ctx, RmParams{ID: rec.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second rm, got %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalActivities != 1 || st.ActiveActivities != 0 {
		t.Errorf("expected 1 total / 0 active, got %d / %d", st.TotalActivities, st.ActiveActivities)
	}
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0})
	if err := s.Rm(ctx, RmParams{ID: rec.ID, Hard: true}); err != nil {
		t.Fatalf("rm hard: %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalActivities != 0 {
		t.Errorf("expected row removed, got %d", st.TotalActivities)
	}
}

func TestSearchNotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0, Note: "left side"})
	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0.Add(time.Hour), Note: "right side"})
	mustAdd(t, s, AddParams{Kind: model.KindMedicine, Start: t0.Add(2 * time.Hour), Note: "vitamin D"})

	results, err := s.Search(ctx, SearchParams{Query: "side"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	results, _ = s.Search(ctx, SearchParams{Query: "vitamin", Kind: model.KindMilk})
	if len(results) != 0 {
		t.Errorf("expected kind filter to exclude medicine, got %d", len(results))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0})
	mustAdd(t, s, AddParams{Kind: model.KindMilk, Start: t0.Add(3 * time.Hour)})
	mustAdd(t, s, AddParams{Kind: model.KindSleep, Start: t0.Add(time.Hour)})

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(st.Kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(st.Kinds))
	}
	if st.Kinds[0].Kind != model.KindMilk || st.Kinds[0].Count != 2 {
		t.Errorf("expected milk x2 first, got %+v", st.Kinds[0])
	}
	if !st.Kinds[0].First.Equal(t0) || !st.Kinds[0].Last.Equal(t0.Add(3*time.Hour)) {
		t.Errorf("unexpected milk range %v..%v", st.Kinds[0].First, st.Kinds[0].Last)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	mustAdd(t, src, AddParams{Kind: model.KindMilk, Start: t0, Note: "bottle"})
	mustAdd(t, src, AddParams{Kind: model.KindSleep, Start: t0.Add(time.Hour)})

	exported, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	// Re-importing the same IDs is a no-op.
	n, _ = dst.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected duplicates to be skipped, got %d", n)
	}

	got, err := dst.Get(ctx, exported[0].ID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if got.Note != "bottle" {
		t.Errorf("expected note to survive import, got %q", got.Note)
	}

	milkOnly, _ := dst.ExportAll(ctx, model.KindMilk)
	if len(milkOnly) != 1 {
		t.Errorf("expected 1 milk export, got %d", len(milkOnly))
	}
}

func TestImportRejectsBadKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), []model.ActivityRecord{
		{Kind: model.KindMilk, StartTime: t0},
		{Kind: "nap", StartTime: t0},
	})
	if !errors.Is(err, model.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	list, _ := s.List(context.Background(), ListParams{})
	if len(list) != 0 {
		t.Errorf("expected import to roll back, got %d rows", len(list))
	}
}

func TestImportRejectsInvalidTimingAndAmount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	before := t0.Add(-time.Hour)
	negative := -30.0

	cases := []struct {
		name string
		rec  model.ActivityRecord
	}{
		{"end before start", model.ActivityRecord{Kind: model.KindSleep, StartTime: t0, EndTime: &before}},
		{"negative amount", model.ActivityRecord{Kind: model.KindMilk, StartTime: t0, Amount: &negative}},
		{"missing start", model.ActivityRecord{Kind: model.KindMilk}},
	}
	for _, c := range cases {
		records := []model.ActivityRecord{{ID: "01HV0000000000000000000001", Kind: model.KindMilk, StartTime: t0}, c.rec}
		if _, err := s.Import(ctx, records); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}

	list, _ := s.List(ctx, ListParams{})
	if len(list) != 0 {
		t.Errorf("expected every rejected import to roll back, got %d rows", len(list))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if got.Sensitivity != settings.Balanced || !got.Enabled {
		t.Errorf("expected defaults, got %+v", got)
	}

	got.Sensitivity = settings.Aggressive
	got.EnabledKinds = []model.Kind{model.KindMilk}
	got.QuietHoursStart, got.QuietHoursEnd = 23, 6
	if err := s.SaveSettings(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, _ := s.LoadSettings(ctx)
	if again.Sensitivity != settings.Aggressive || again.QuietHoursStart != 23 || len(again.EnabledKinds) != 1 {
		t.Errorf("settings not persisted: %+v", again)
	}

	again.MinimumConfidence = 2
	if err := s.SaveSettings(ctx, again); !errors.Is(err, settings.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestReplaceReminders(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	var sink reminder.NotificationSink = s

	first := []model.Reminder{
		{ID: "milk-1", Kind: model.KindMilk, ScheduledTime: t0.Add(2 * time.Hour), Message: "feed", Priority: model.PriorityHigh},
		{ID: "sleep-1", Kind: model.KindSleep, ScheduledTime: t0.Add(time.Hour), Message: "nap", Priority: model.PriorityLow},
	}
	if err := sink.Replace(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	pending, _ := s.Pending(ctx)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].ID != "sleep-1" {
		t.Errorf("expected earliest first, got %s", pending[0].ID)
	}
	if pending[1].Priority != model.PriorityHigh || pending[1].Message != "feed" {
		t.Errorf("reminder fields not persisted: %+v", pending[1])
	}

	second := []model.Reminder{
		{ID: "diaper-1", Kind: model.KindWetDiaper, ScheduledTime: t0.Add(3 * time.Hour), Message: "check", Priority: model.PriorityMedium},
	}
	if err := sink.Replace(ctx, second); err != nil {
		t.Fatalf("replace: %v", err)
	}
	pending, _ = s.Pending(ctx)
	if len(pending) != 1 || pending[0].ID != "diaper-1" {
		t.Errorf("expected batch to be replaced wholesale, got %v", pending)
	}

	// A failing batch (duplicate id) keeps the previous one.
	dup := []model.Reminder{second[0], second[0]}
	if err := sink.Replace(ctx, dup); err == nil {
		t.Fatal("expected duplicate id to fail")
	}
	pending, _ = s.Pending(ctx)
	if len(pending) != 1 || pending[0].ID != "diaper-1" {
		t.Errorf("expected previous batch after failed replace, got %v", pending)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
