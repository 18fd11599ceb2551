package pattern

import (
	"github.com/rcliao/babylog/internal/model"
)

// MaxGapMinutes is the exclusive upper bound on a usable gap. Longer gaps are
// logging holes, not rhythm.
const MaxGapMinutes = 24 * 60

// Intervals returns the gaps in minutes between consecutive records, measured
// from the effective end of one to the start of the next. Records must be of
// one kind and sorted by start time. Only gaps in (0, MaxGapMinutes) are kept.
func Intervals(records []model.ActivityRecord) []float64 {
	if len(records) < 2 {
		return nil
	}

	gaps := make([]float64, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		gap := records[i].StartTime.Sub(records[i-1].EffectiveEnd()).Minutes()
		if gap <= 0 || gap >= MaxGapMinutes {
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps
}
