package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/babylog/internal/model"
)

var base = time.Date(2024, 6, 3, 6, 0, 0, 0, time.UTC)

// instants builds instantaneous records of kind starting at the given minute
// offsets from base.
func instants(kind model.Kind, offsets ...int) []model.ActivityRecord {
	out := make([]model.ActivityRecord, 0, len(offsets))
	for _, m := range offsets {
		out = append(out, model.ActivityRecord{
			Kind:      kind,
			StartTime: base.Add(time.Duration(m) * time.Minute),
		})
	}
	return out
}

// spaced builds records whose consecutive gaps are the given minutes.
func spaced(kind model.Kind, gaps ...int) []model.ActivityRecord {
	offsets := []int{0}
	at := 0
	for _, g := range gaps {
		at += g
		offsets = append(offsets, at)
	}
	return instants(kind, offsets...)
}

func TestIntervals(t *testing.T) {
	t.Parallel()

	end := base.Add(90 * time.Minute)
	records := []model.ActivityRecord{
		{Kind: model.KindSleep, StartTime: base, EndTime: &end},
		{Kind: model.KindSleep, StartTime: base.Add(180 * time.Minute)},
		{Kind: model.KindSleep, StartTime: base.Add(180 * time.Minute)},
		{Kind: model.KindSleep, StartTime: base.Add(240 * time.Minute)},
	}

	// Gap after a duration activity is measured from its end; duplicates are dropped.
	assert.Equal(t, []float64{90, 60}, Intervals(records))
}

func TestIntervalsTooFew(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Intervals(nil))
	assert.Empty(t, Intervals(instants(model.KindMilk, 0)))
}

func TestIntervalsRejectsOutliers(t *testing.T) {
	t.Parallel()

	gaps := Intervals(spaced(model.KindMilk, 60, 60, 1500, 60, 1440, 60))
	assert.NotContains(t, gaps, 1500.0)
	assert.NotContains(t, gaps, 1440.0)
	assert.Equal(t, []float64{60, 60, 60, 60}, gaps)
}

func TestMedian(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd length", []float64{10, 20, 30, 40, 50}, 30},
		{"even length takes index n/2", []float64{10, 20, 30, 40}, 30},
		{"unsorted input", []float64{50, 10, 40, 30, 20}, 30},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Median(tc.values))
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	regular := Confidence([]float64{60, 60, 60, 60, 60})
	irregular := Confidence([]float64{5, 500, 10, 600, 8})

	assert.Equal(t, 1.0, regular)
	assert.Less(t, irregular, 0.5)
	assert.Greater(t, regular, irregular)
	// cv > 1 floors the base at zero, leaving only the 5-gap bonus.
	assert.InDelta(t, 0.05, irregular, 1e-9)
}

func TestConfidenceSampleBonus(t *testing.T) {
	t.Parallel()

	// mean 100, stddev 50: base 0.5
	assert.InDelta(t, 0.52, Confidence([]float64{50, 150}), 1e-9)

	many := make([]float64, 0, 40)
	for i := 0; i < 20; i++ {
		many = append(many, 50, 150)
	}
	// bonus caps at 0.1
	assert.InDelta(t, 0.6, Confidence(many), 1e-9)
}

func TestConfidenceZeroMean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Confidence([]float64{0, 0, 0}))
	assert.Equal(t, 0.0, Confidence(nil))
}

func TestAnalyzeKindInsufficientSample(t *testing.T) {
	t.Parallel()

	records := spaced(model.KindMilk, 180, 180, 180)
	require.Len(t, records, 4)
	_, ok := AnalyzeKind(records, model.KindMilk, base)
	assert.False(t, ok, "four records must not produce a pattern")

	records = spaced(model.KindMilk, 180, 180, 180, 180)
	p, ok := AnalyzeKind(records, model.KindMilk, base)
	require.True(t, ok, "the fifth record should produce a pattern")
	assert.Equal(t, 5, p.SampleSize)
	assert.Equal(t, 180.0, p.TypicalIntervalMinutes)
}

func TestAnalyzeKindNoUsableGaps(t *testing.T) {
	t.Parallel()

	// Five feeds a day apart: every gap is >= 24h.
	records := spaced(model.KindMilk, 1440, 1500, 2000, 1440)
	_, ok := AnalyzeKind(records, model.KindMilk, base)
	assert.False(t, ok)
}

func TestAnalyzeKindOutlierDoesNotMoveMedian(t *testing.T) {
	t.Parallel()

	clean, ok := AnalyzeKind(spaced(model.KindMilk, 60, 60, 60, 60), model.KindMilk, base)
	require.True(t, ok)
	withHole, ok := AnalyzeKind(spaced(model.KindMilk, 60, 60, 1500, 60, 60), model.KindMilk, base)
	require.True(t, ok)

	assert.Equal(t, clean.TypicalIntervalMinutes, withHole.TypicalIntervalMinutes)
	assert.Equal(t, clean.Confidence, withHole.Confidence)
	assert.Equal(t, 6, withHole.SampleSize)
}

func TestAnalyzeKindUnsortedInput(t *testing.T) {
	t.Parallel()

	records := instants(model.KindWetDiaper, 240, 0, 120, 480, 360)
	p, ok := AnalyzeKind(records, model.KindWetDiaper, base)
	require.True(t, ok)
	assert.Equal(t, 120.0, p.TypicalIntervalMinutes)
	assert.Equal(t, 1.0, p.Confidence)
}

func TestHourDistribution(t *testing.T) {
	t.Parallel()

	// base is 06:00; offsets land at 06, 06, 07, 09
	dist := HourDistribution(instants(model.KindMilk, 0, 30, 60, 180))

	assert.InDelta(t, 0.5, dist[6], 1e-9)
	assert.InDelta(t, 0.25, dist[7], 1e-9)
	assert.InDelta(t, 0.25, dist[9], 1e-9)
	assert.Equal(t, 0.0, dist[0])

	sum := 0.0
	for _, v := range dist {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAnalyzeWindow(t *testing.T) {
	t.Parallel()

	reference := base.Add(10 * 24 * time.Hour)
	old := instants(model.KindMilk, -6*24*60, -6*24*60+180, -6*24*60+360, -6*24*60+540, -6*24*60+720)
	recent := spaced(model.KindSleep, 120, 120, 120, 120)

	all := append(append([]model.ActivityRecord{}, old...), recent...)
	patterns := Analyze(all, reference, DefaultOptions())

	assert.NotContains(t, patterns, model.KindMilk, "records older than the window are ignored")
	require.Contains(t, patterns, model.KindSleep)
	assert.Equal(t, reference, patterns[model.KindSleep].ComputedAt)

	unbounded := Analyze(all, reference, Options{Window: -1})
	assert.Contains(t, unbounded, model.KindMilk)
}

func TestWindowExcludesFuture(t *testing.T) {
	t.Parallel()

	records := instants(model.KindMilk, -60, 0, 60)
	got := Window(records, base, 0)
	require.Len(t, got, 2)
	assert.Equal(t, base, got[1].StartTime)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	t.Parallel()

	records := append(spaced(model.KindMilk, 170, 185, 175, 190, 180),
		spaced(model.KindWetDiaper, 100, 140, 90, 200, 120, 110)...)
	reference := base.Add(24 * time.Hour)

	first := Analyze(records, reference, DefaultOptions())
	second := Analyze(records, reference.Add(time.Minute), DefaultOptions())

	require.Len(t, second, len(first))
	for kind, p := range first {
		q := second[kind]
		assert.NotEqual(t, p.ComputedAt, q.ComputedAt)
		q.ComputedAt = p.ComputedAt
		assert.Equal(t, p, q)
	}
}
