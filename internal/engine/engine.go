// Package engine wires the analyze, predict and schedule phases together for a
// host, adding an injectable clock, a notification sink, result listeners and
// an in-memory pattern cache.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/pattern"
	"github.com/rcliao/babylog/internal/predict"
	"github.com/rcliao/babylog/internal/reminder"
	"github.com/rcliao/babylog/internal/settings"
)

const cacheSize = 64

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Result is the output of one full pass.
type Result struct {
	ComputedAt  time.Time                    `json:"computed_at"`
	Patterns    map[model.Kind]model.Pattern `json:"patterns"`
	Predictions []model.Prediction           `json:"predictions"`
	Reminders   []model.Reminder             `json:"reminders"`
}

// Listener is told about every computed Result. Errors are logged and do not
// fail the pass.
type Listener func(ctx context.Context, r *Result) error

// Engine runs passes over activity snapshots. It is safe for concurrent use.
type Engine struct {
	clock     Clock
	sink      reminder.NotificationSink
	logger    *slog.Logger
	window    time.Duration
	cache     *otter.Cache[string, map[model.Kind]model.Pattern]
	listeners []Listener
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSink sets where Refresh delivers reminders. Without a sink, Refresh only
// computes.
func WithSink(s reminder.NotificationSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWindow sets the analysis look-back. Negative disables windowing.
func WithWindow(d time.Duration) Option {
	return func(e *Engine) { e.window = d }
}

// WithCacheTTL caches analysis results per snapshot for ttl. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl <= 0 {
			e.cache = nil
			return
		}
		e.cache = otter.Must(&otter.Options[string, map[model.Kind]model.Pattern]{
			MaximumSize:      cacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, map[model.Kind]model.Pattern](ttl),
		})
	}
}

// WithListener registers a result listener.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		window: pattern.DefaultWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "engine")
	return e
}

// Now returns the engine clock's time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Analyze learns patterns from records within the look-back window ending now.
func (e *Engine) Analyze(records []model.ActivityRecord) map[model.Kind]model.Pattern {
	now := e.clock.Now()
	windowed := pattern.Window(records, now, e.window)

	var key string
	if e.cache != nil {
		key = fingerprint(windowed)
		if cached, ok := e.cache.GetIfPresent(key); ok {
			e.logger.Debug("pattern cache hit", "records", len(windowed), "patterns", len(cached))
			return maps.Clone(cached)
		}
	}

	patterns := pattern.Analyze(windowed, now, pattern.Options{Window: -1})
	e.logger.Debug("analyzed activity log", "records", len(windowed), "patterns", len(patterns))

	if e.cache != nil {
		e.cache.Set(key, maps.Clone(patterns))
	}
	return patterns
}

// Predict projects the next occurrence of every kind with a usable pattern.
// Records that start after the clock's now never anchor a prediction.
func (e *Engine) Predict(records []model.ActivityRecord, patterns map[model.Kind]model.Pattern, s settings.ReminderSettings) []model.Prediction {
	preds := predict.Predict(notAfter(records, e.clock.Now()), patterns, s)
	e.logger.Debug("predicted next occurrences", "predictions", len(preds), "sensitivity", s.Sensitivity)
	return preds
}

// Schedule filters predictions into reminders relative to the clock.
func (e *Engine) Schedule(predictions []model.Prediction, s settings.ReminderSettings) []model.Reminder {
	reminders := reminder.Schedule(predictions, s, e.clock.Now())
	e.logger.Debug("scheduled reminders", "predictions", len(predictions), "reminders", len(reminders))
	return reminders
}

// Refresh runs analyze, predict and schedule over records, then replaces the
// sink's outstanding reminders with the new batch.
func (e *Engine) Refresh(ctx context.Context, records []model.ActivityRecord, s settings.ReminderSettings) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	patterns := e.Analyze(records)
	preds := e.Predict(records, patterns, s)
	result := &Result{
		ComputedAt:  e.clock.Now(),
		Patterns:    patterns,
		Predictions: preds,
		Reminders:   e.Schedule(preds, s),
	}

	for i, l := range e.listeners {
		if err := l(ctx, result); err != nil {
			e.logger.Error("result listener failed", "listener_index", i, "error", err)
		}
	}

	if e.sink == nil {
		return result, nil
	}
	if err := e.sink.Replace(ctx, result.Reminders); err != nil {
		return result, fmt.Errorf("deliver reminders: %w", err)
	}
	e.logger.Info("reminders synced", "count", len(result.Reminders))
	return result, nil
}

// Snapshot loads the activity log and reminder settings for one pass.
type Snapshot func(ctx context.Context) ([]model.ActivityRecord, settings.ReminderSettings, error)

// Watch calls Refresh on a fresh snapshot immediately and then every
// interval until ctx is done. Load and delivery failures are logged and the
// next tick tries again. An unchanged log is served from the pattern cache.
func (e *Engine) Watch(ctx context.Context, interval time.Duration, load Snapshot) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := e.refreshFrom(ctx, load); err != nil {
			e.logger.Error("refresh failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) refreshFrom(ctx context.Context, load Snapshot) error {
	records, s, err := load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	_, err = e.Refresh(ctx, records, s)
	return err
}

func notAfter(records []model.ActivityRecord, now time.Time) []model.ActivityRecord {
	out := make([]model.ActivityRecord, 0, len(records))
	for _, r := range records {
		if !r.StartTime.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// fingerprint identifies a snapshot by kind and timing of every record.
func fingerprint(records []model.ActivityRecord) string {
	h := sha256.New()
	for _, r := range records {
		fmt.Fprintf(h, "%s|%s|%s\n", r.Kind,
			r.StartTime.Format(time.RFC3339Nano),
			r.EffectiveEnd().Format(time.RFC3339Nano))
	}
	return hex.EncodeToString(h.Sum(nil))
}
