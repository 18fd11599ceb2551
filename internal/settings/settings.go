// Package settings holds the user's reminder configuration and the quiet-hours
// window arithmetic used by prediction and scheduling.
package settings

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rcliao/babylog/internal/model"
)

// ErrInvalid is returned when settings fail validation.
var ErrInvalid = errors.New("invalid reminder settings")

// Sensitivity scales how early or late predictions land relative to the
// learned interval.
type Sensitivity string

const (
	Conservative Sensitivity = "conservative"
	Balanced     Sensitivity = "balanced"
	Aggressive   Sensitivity = "aggressive"
)

// Multiplier is applied to the typical interval. Conservative waits longer,
// aggressive reminds earlier.
func (s Sensitivity) Multiplier() float64 {
	switch s {
	case Conservative:
		return 1.2
	case Aggressive:
		return 0.8
	default:
		return 1.0
	}
}

// ConfidenceFloor is the minimum pattern confidence needed before a pattern
// is used for prediction at all.
func (s Sensitivity) ConfidenceFloor() float64 {
	switch s {
	case Conservative:
		return 0.7
	case Aggressive:
		return 0.3
	default:
		return 0.5
	}
}

// ReminderSettings is the user's reminder configuration.
type ReminderSettings struct {
	Enabled           bool         `json:"enabled"`
	EnabledKinds      []model.Kind `json:"enabled_kinds" validate:"dive,oneof=sleep milk wetDiaper dirtyDiaper solidFood tummyTime bathTime medicine"`
	Sensitivity       Sensitivity  `json:"sensitivity" validate:"oneof=conservative balanced aggressive"`
	QuietHoursEnabled bool         `json:"quiet_hours_enabled"`
	QuietHoursStart   int          `json:"quiet_hours_start" validate:"min=0,max=23"`
	QuietHoursEnd     int          `json:"quiet_hours_end" validate:"min=0,max=23"`
	MinimumConfidence float64      `json:"minimum_confidence" validate:"min=0,max=1"`
}

// Default returns the settings used before the user changes anything.
func Default() ReminderSettings {
	kinds := make([]model.Kind, len(model.AllKinds))
	copy(kinds, model.AllKinds)
	return ReminderSettings{
		Enabled:           true,
		EnabledKinds:      kinds,
		Sensitivity:       Balanced,
		QuietHoursEnabled: true,
		QuietHoursStart:   22,
		QuietHoursEnd:     7,
		MinimumConfidence: 0.5,
	}
}

var validate = validator.New()

// Validate checks ranges and enumerations.
func (s ReminderSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// KindEnabled reports whether reminders for kind are switched on.
func (s ReminderSettings) KindEnabled(kind model.Kind) bool {
	for _, k := range s.EnabledKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// QuietHours returns the configured window, or an empty window when quiet
// hours are off.
func (s ReminderSettings) QuietHours() QuietHours {
	if !s.QuietHoursEnabled {
		return QuietHours{}
	}
	return QuietHours{Start: s.QuietHoursStart, End: s.QuietHoursEnd}
}

// EffectiveFloor is the lowest confidence a prediction can have and still
// produce a reminder.
func (s ReminderSettings) EffectiveFloor() float64 {
	return max(s.Sensitivity.ConfidenceFloor(), s.MinimumConfidence)
}
