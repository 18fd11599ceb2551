// Package model defines the core activity and reminder data types.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidKind is returned when a string does not name a known activity kind.
var ErrInvalidKind = errors.New("invalid activity kind")

// Kind is the fixed category of a logged activity.
type Kind string

const (
	KindSleep       Kind = "sleep"
	KindMilk        Kind = "milk"
	KindWetDiaper   Kind = "wetDiaper"
	KindDirtyDiaper Kind = "dirtyDiaper"
	KindSolidFood   Kind = "solidFood"
	KindTummyTime   Kind = "tummyTime"
	KindBathTime    Kind = "bathTime"
	KindMedicine    Kind = "medicine"
)

// AllKinds lists every kind in display order.
var AllKinds = []Kind{
	KindSleep,
	KindMilk,
	KindWetDiaper,
	KindDirtyDiaper,
	KindSolidFood,
	KindTummyTime,
	KindBathTime,
	KindMedicine,
}

// ValidKinds are the allowed activity kinds.
var ValidKinds = map[Kind]bool{
	KindSleep:       true,
	KindMilk:        true,
	KindWetDiaper:   true,
	KindDirtyDiaper: true,
	KindSolidFood:   true,
	KindTummyTime:   true,
	KindBathTime:    true,
	KindMedicine:    true,
}

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !ValidKinds[k] {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Index returns the position of k in AllKinds, or len(AllKinds) for unknown kinds.
func (k Kind) Index() int {
	for i, kk := range AllKinds {
		if kk == k {
			return i
		}
	}
	return len(AllKinds)
}

// ActivityRecord is one logged activity. A nil EndTime means the activity was
// instantaneous.
type ActivityRecord struct {
	ID        string     `json:"id,omitempty"`
	Kind      Kind       `json:"kind"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// EffectiveEnd is EndTime when present, else StartTime.
func (a ActivityRecord) EffectiveEnd() time.Time {
	if a.EndTime != nil {
		return *a.EndTime
	}
	return a.StartTime
}

// Duration is zero for instantaneous activities.
func (a ActivityRecord) Duration() time.Duration {
	return a.EffectiveEnd().Sub(a.StartTime)
}
