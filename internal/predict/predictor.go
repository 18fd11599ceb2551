// Package predict projects the next expected occurrence of each activity kind
// from its learned pattern.
package predict

import (
	"math"
	"sort"
	"time"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/settings"
)

// Next projects the next occurrence of kind after last. The interval is
// scaled by the sensitivity multiplier and the result is pushed out of quiet
// hours.
func Next(kind model.Kind, p model.Pattern, last model.ActivityRecord, s settings.ReminderSettings) model.Prediction {
	lastEnd := last.EffectiveEnd()
	adjusted := p.TypicalIntervalMinutes * s.Sensitivity.Multiplier()

	predicted := lastEnd.Add(time.Duration(math.Round(adjusted * float64(time.Minute))))
	predicted = s.QuietHours().Defer(predicted)

	return model.Prediction{
		Kind:           kind,
		PredictedTime:  predicted,
		Confidence:     p.Confidence,
		BasedOnPattern: p,
		Message:        Message(kind, predicted.Sub(lastEnd)),
	}
}

// Predict builds one prediction per kind that has a pattern clearing the
// sensitivity confidence floor and at least one logged record. The result is
// sorted by predicted time.
func Predict(records []model.ActivityRecord, patterns map[model.Kind]model.Pattern, s settings.ReminderSettings) []model.Prediction {
	latest := Latest(records)
	floor := s.Sensitivity.ConfidenceFloor()

	var out []model.Prediction
	for _, kind := range model.AllKinds {
		p, ok := patterns[kind]
		if !ok || p.Confidence < floor {
			continue
		}
		last, ok := latest[kind]
		if !ok {
			continue
		}
		out = append(out, Next(kind, p, last, s))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PredictedTime.Equal(out[j].PredictedTime) {
			return out[i].PredictedTime.Before(out[j].PredictedTime)
		}
		return out[i].Kind.Index() < out[j].Kind.Index()
	})
	return out
}

// Latest returns the most recently started record of each kind. On equal
// start times the later record in the slice wins.
func Latest(records []model.ActivityRecord) map[model.Kind]model.ActivityRecord {
	latest := make(map[model.Kind]model.ActivityRecord)
	for _, r := range records {
		cur, ok := latest[r.Kind]
		if !ok || !r.StartTime.Before(cur.StartTime) {
			latest[r.Kind] = r
		}
	}
	return latest
}
