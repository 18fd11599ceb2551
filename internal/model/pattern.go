package model

import "time"

// HoursPerDay is the number of hour-of-day buckets in a HourDistribution.
const HoursPerDay = 24

// HourDistribution maps hour of day (index 0..23) to the share of activities
// that started in that hour.
type HourDistribution [HoursPerDay]float64

// Pattern is the learned timing summary for one kind.
type Pattern struct {
	Kind                   Kind             `json:"kind"`
	TypicalIntervalMinutes float64          `json:"typical_interval_minutes"`
	Confidence             float64          `json:"confidence"`
	HourDistribution       HourDistribution `json:"hour_distribution"`
	SampleSize             int              `json:"sample_size"`
	ComputedAt             time.Time        `json:"computed_at"`
}

// PeakHour returns the hour with the largest share (earliest on ties).
func (p Pattern) PeakHour() int {
	best := 0
	for h := 1; h < HoursPerDay; h++ {
		if p.HourDistribution[h] > p.HourDistribution[best] {
			best = h
		}
	}
	return best
}

// Prediction is the projected next occurrence of a kind.
type Prediction struct {
	Kind           Kind      `json:"kind"`
	PredictedTime  time.Time `json:"predicted_time"`
	Confidence     float64   `json:"confidence"`
	BasedOnPattern Pattern   `json:"based_on_pattern"`
	Message        string    `json:"message"`
}
