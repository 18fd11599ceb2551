package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/render"
)

var clockLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTime reads a user-supplied timestamp relative to now. It accepts
// RFC3339, "2006-01-02 15:04", a bare "15:04" (the most recent such time,
// today or yesterday), and offsets such as "45m ago" or "-45m".
func parseTime(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "now" {
		return now, nil
	}

	if rest, ok := strings.CutSuffix(s, " ago"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(rest))
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
		}
		return now.Add(-d), nil
	}
	if strings.HasPrefix(s, "-") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
		}
		return now.Add(d), nil
	}

	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		local := now.In(loc)
		at := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		if at.After(local) {
			at = at.AddDate(0, 0, -1)
		}
		return at, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC3339, \"2006-01-02 15:04\", \"15:04\" or \"30m ago\")", s)
}

// formatRecord renders one activity as a single text line.
func formatRecord(r model.ActivityRecord) string {
	parts := []string{r.ID, r.StartTime.Format("2006-01-02 15:04"), string(r.Kind)}
	if r.EndTime != nil {
		parts = append(parts, render.Duration(r.Duration().Minutes()))
	}
	if r.Amount != nil {
		parts = append(parts, strconv.FormatFloat(*r.Amount, 'f', -1, 64))
	}
	if r.Note != "" {
		parts = append(parts, strconv.Quote(r.Note))
	}
	return strings.Join(parts, "  ")
}

func printRecords(records []model.ActivityRecord) {
	if !textOutput() {
		if records == nil {
			records = []model.ActivityRecord{}
		}
		printJSON(records)
		return
	}
	for _, r := range records {
		fmt.Println(formatRecord(r))
	}
}

func printRecord(r model.ActivityRecord) {
	if textOutput() {
		fmt.Println(formatRecord(r))
		return
	}
	printJSON(r)
}
