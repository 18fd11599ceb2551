// Package render formats engine output for the terminal.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/settings"
)

// barWidth is the length of the bar for the busiest hour.
const barWidth = 40

// Duration formats a minute count as "2h 30m", "45m" or "3h".
func Duration(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// Summary is the one-line description of a pattern.
func Summary(p model.Pattern) string {
	return fmt.Sprintf("%s: every %s (confidence %.2f, %d samples)",
		p.Kind, Duration(p.TypicalIntervalMinutes), p.Confidence, p.SampleSize)
}

// Histogram draws the hour-of-day distribution of p, one row per hour. The
// peak hour is marked "^" and hours inside quiet are marked "z".
func Histogram(p model.Pattern, quiet settings.QuietHours) string {
	var out strings.Builder

	out.WriteString(Summary(p) + "\n")
	out.WriteString(strings.Repeat("─", 50) + "\n")

	maxShare := 0.0
	for _, share := range p.HourDistribution {
		maxShare = math.Max(maxShare, share)
	}
	if maxShare == 0 {
		out.WriteString("No activity data available\n")
		return out.String()
	}

	peak := p.PeakHour()
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := range model.HoursPerDay {
		share := p.HourDistribution[h]

		marker := "  "
		barColor := color.New(color.FgHiBlack)
		switch {
		case h == peak:
			marker = color.New(color.FgYellow).Sprint("^") + " "
			barColor = color.New(color.FgYellow)
		case quiet.Contains(day.Add(time.Duration(h) * time.Hour)):
			marker = color.New(color.FgBlue).Sprint("z") + " "
		}

		line := fmt.Sprintf("%02d:00 %s", h, marker)
		if share > 0 {
			line += fmt.Sprintf("(%3.0f%%) ", share*100)
			n := int(math.Round(share / maxShare * barWidth))
			if n <= 1 {
				line += barColor.Sprint("·")
			} else {
				line += barColor.Sprint(strings.Repeat("█", n))
			}
		}
		out.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	return out.String()
}
