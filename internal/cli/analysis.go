package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/render"
	"github.com/rcliao/babylog/internal/settings"
	"github.com/rcliao/babylog/internal/store"
)

func init() {
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show learned interval patterns",
		Long:  "Show the typical interval, confidence and hour-of-day distribution learned for each kind.",
		Run:   runPatterns,
	}
	patternsCmd.Flags().String("kind", "", "Only this kind")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the next occurrence of each kind",
		Run:   runPredict,
	}

	RootCmd.AddCommand(patternsCmd, predictCmd)
}

// readSnapshot reads the full live log, localized to the configured
// timezone, and the saved reminder settings.
func readSnapshot(ctx context.Context, s *store.SQLiteStore) ([]model.ActivityRecord, settings.ReminderSettings, error) {
	records, err := s.All(ctx, time.Time{})
	if err != nil {
		return nil, settings.ReminderSettings{}, fmt.Errorf("load activities: %w", err)
	}
	rs, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, settings.ReminderSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return localize(records, location()), rs, nil
}

func loadSnapshot(ctx context.Context, s *store.SQLiteStore) ([]model.ActivityRecord, settings.ReminderSettings) {
	records, rs, err := readSnapshot(ctx, s)
	if err != nil {
		exitErr("snapshot", err)
	}
	return records, rs
}

func runPatterns(cmd *cobra.Command, args []string) {
	kindStr, _ := cmd.Flags().GetString("kind")

	var only model.Kind
	if kindStr != "" {
		k, err := model.ParseKind(kindStr)
		if err != nil {
			exitErr("patterns", err)
		}
		only = k
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, rs := loadSnapshot(cmd.Context(), s)
	patterns := newEngine(newLogger(), nil).Analyze(records)

	out := []model.Pattern{}
	for _, kind := range model.AllKinds {
		p, ok := patterns[kind]
		if !ok || (only != "" && kind != only) {
			continue
		}
		out = append(out, p)
	}

	if !textOutput() {
		printJSON(out)
		return
	}
	if len(out) == 0 {
		fmt.Println("No patterns yet: each kind needs at least 5 entries.")
		return
	}
	for i, p := range out {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(render.Histogram(p, rs.QuietHours()))
	}
}

func runPredict(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, rs := loadSnapshot(cmd.Context(), s)
	if err := rs.Validate(); err != nil {
		exitErr("settings", err)
	}
	e := newEngine(newLogger(), nil)
	preds := e.Predict(records, e.Analyze(records), rs)
	if preds == nil {
		preds = []model.Prediction{}
	}

	if !textOutput() {
		printJSON(preds)
		return
	}
	now := e.Now()
	for _, p := range preds {
		when := "due now"
		if d := p.PredictedTime.Sub(now); d > 0 {
			when = "in " + render.Duration(d.Minutes())
		}
		fmt.Printf("%-12s %s  (%s, confidence %.2f)  %s\n",
			p.Kind, p.PredictedTime.Format("2006-01-02 15:04"), when, p.Confidence, p.Message)
	}
}

func sortedReminders(reminders []model.Reminder) []model.Reminder {
	out := slices.Clone(reminders)
	if out == nil {
		out = []model.Reminder{}
	}
	slices.SortStableFunc(out, func(a, b model.Reminder) int {
		return a.ScheduledTime.Compare(b.ScheduledTime)
	})
	return out
}

func printReminders(reminders []model.Reminder) {
	reminders = sortedReminders(reminders)
	if !textOutput() {
		printJSON(reminders)
		return
	}
	loc := location()
	for _, r := range reminders {
		fmt.Printf("%s  %-6s  %-12s  %s\n",
			r.ScheduledTime.In(loc).Format("2006-01-02 15:04"), r.Priority, r.Kind, r.Message)
	}
}
