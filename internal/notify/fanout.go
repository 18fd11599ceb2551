package notify

import (
	"context"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/reminder"
)

// Fanout delivers each batch to several sinks in order.
type Fanout []reminder.NotificationSink

// NewFanout combines sinks, skipping nil ones.
func NewFanout(sinks ...reminder.NotificationSink) Fanout {
	var f Fanout
	for _, s := range sinks {
		if s != nil {
			f = append(f, s)
		}
	}
	return f
}

// Replace hands the batch to every sink, even after a failure, and returns
// the first error.
func (f Fanout) Replace(ctx context.Context, reminders []model.Reminder) error {
	var first error
	for _, s := range f {
		if err := s.Replace(ctx, reminders); err != nil && first == nil {
			first = err
		}
	}
	return first
}
