// Package reminder turns predictions into deliverable reminders.
package reminder

import (
	"context"
	"time"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/settings"
)

const (
	highConfidence   = 0.8
	mediumConfidence = 0.5
)

// NotificationSink receives each new reminder batch. Replace clears every
// outstanding reminder before installing the batch; a failed Replace must
// leave the previous batch in place.
type NotificationSink interface {
	Replace(ctx context.Context, reminders []model.Reminder) error
}

// Schedule filters predictions into reminders. A prediction is dropped when
// reminders are disabled for its kind, when its confidence is below the
// configured minimum, or when its time is not strictly after now. Input order
// is kept.
func Schedule(predictions []model.Prediction, s settings.ReminderSettings, now time.Time) []model.Reminder {
	if !s.Enabled {
		return nil
	}

	var out []model.Reminder
	for _, p := range predictions {
		if !s.KindEnabled(p.Kind) {
			continue
		}
		if p.Confidence < s.MinimumConfidence {
			continue
		}
		if !p.PredictedTime.After(now) {
			continue
		}
		out = append(out, model.Reminder{
			ID:            model.ReminderID(p.Kind, p.PredictedTime),
			Kind:          p.Kind,
			ScheduledTime: p.PredictedTime,
			Message:       p.Message,
			Repeating:     false,
			Priority:      PriorityFor(p.Confidence),
		})
	}
	return out
}

// PriorityFor maps a confidence score to a delivery priority.
func PriorityFor(confidence float64) model.Priority {
	switch {
	case confidence >= highConfidence:
		return model.PriorityHigh
	case confidence >= mediumConfidence:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
