// Package pattern mines an activity log for per-kind timing regularities.
package pattern

import (
	"math"
	"sort"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

const (
	// MinimumSampleSize is the fewest records of a kind that can yield a pattern.
	MinimumSampleSize = 5
	// DefaultWindow is the default look-back applied by Analyze.
	DefaultWindow = 14 * 24 * time.Hour

	maxSampleBonus = 0.1
)

// Options configures Analyze.
type Options struct {
	// Window limits analysis to records that started within this duration
	// before the reference time. Zero means DefaultWindow; negative disables
	// windowing.
	Window time.Duration
}

// DefaultOptions returns default analysis options.
func DefaultOptions() Options {
	return Options{Window: DefaultWindow}
}

// Analyze learns a pattern for every kind with enough data. Kinds without a
// pattern are absent from the result.
func Analyze(records []model.ActivityRecord, reference time.Time, opts Options) map[model.Kind]model.Pattern {
	windowed := Window(records, reference, opts.Window)

	patterns := make(map[model.Kind]model.Pattern)
	for _, kind := range model.AllKinds {
		if p, ok := AnalyzeKind(windowed, kind, reference); ok {
			patterns[kind] = p
		}
	}
	return patterns
}

// Window keeps records whose start falls in (reference-window, reference].
// A zero window means DefaultWindow and a negative one keeps everything.
func Window(records []model.ActivityRecord, reference time.Time, window time.Duration) []model.ActivityRecord {
	if window < 0 {
		return records
	}
	if window == 0 {
		window = DefaultWindow
	}
	cutoff := reference.Add(-window)

	out := make([]model.ActivityRecord, 0, len(records))
	for _, r := range records {
		if r.StartTime.After(cutoff) && !r.StartTime.After(reference) {
			out = append(out, r)
		}
	}
	return out
}

// AnalyzeKind learns the pattern for one kind. It reports false when there are
// fewer than MinimumSampleSize records or no usable gaps.
func AnalyzeKind(records []model.ActivityRecord, kind model.Kind, now time.Time) (model.Pattern, bool) {
	ofKind := FilterKind(records, kind)
	if len(ofKind) < MinimumSampleSize {
		return model.Pattern{}, false
	}

	gaps := Intervals(ofKind)
	if len(gaps) == 0 {
		return model.Pattern{}, false
	}

	return model.Pattern{
		Kind:                   kind,
		TypicalIntervalMinutes: Median(gaps),
		Confidence:             Confidence(gaps),
		HourDistribution:       HourDistribution(ofKind),
		SampleSize:             len(ofKind),
		ComputedAt:             now,
	}, true
}

// FilterKind returns the records of kind sorted by start time. The input is
// not modified.
func FilterKind(records []model.ActivityRecord, kind model.Kind) []model.ActivityRecord {
	var out []model.ActivityRecord
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Median returns the element at index n/2 of the sorted values. Even-length
// inputs take the upper of the two middle elements rather than their mean.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// Confidence scores how regular the gaps are: 1 - coefficient of variation,
// plus a bonus of up to 0.1 for larger samples, clamped to [0, 1].
func Confidence(gaps []float64) float64 {
	if len(gaps) == 0 {
		return 0
	}

	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))

	cv := math.Sqrt(variance) / mean
	base := clamp(1-cv, 0, 1)
	bonus := math.Min(maxSampleBonus, float64(len(gaps))/100)
	return clamp(base+bonus, 0, 1)
}

// HourDistribution buckets records by the hour of their start time, in the
// start time's own location, normalized by record count.
func HourDistribution(records []model.ActivityRecord) model.HourDistribution {
	var dist model.HourDistribution
	if len(records) == 0 {
		return dist
	}
	for _, r := range records {
		dist[r.StartTime.Hour()]++
	}
	total := float64(len(records))
	for h := range dist {
		dist[h] /= total
	}
	return dist
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
