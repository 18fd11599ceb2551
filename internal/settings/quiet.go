package settings

import "time"

// QuietHours is a clock-time window [Start, End) in whole hours. Start > End
// wraps past midnight; Start == End is an empty window.
type QuietHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Wraps reports whether the window crosses midnight.
func (q QuietHours) Wraps() bool {
	return q.Start > q.End
}

// Contains reports whether t's clock hour falls inside the window, evaluated
// in t's own location.
func (q QuietHours) Contains(t time.Time) bool {
	h := t.Hour()
	switch {
	case q.Start == q.End:
		return false
	case q.Wraps():
		return h >= q.Start || h < q.End
	default:
		return h >= q.Start && h < q.End
	}
}

// Defer moves t to the next end boundary of the window when t falls inside
// it. Times outside the window are returned unchanged.
func (q QuietHours) Defer(t time.Time) time.Time {
	if !q.Contains(t) {
		return t
	}
	boundary := time.Date(t.Year(), t.Month(), t.Day(), q.End, 0, 0, 0, t.Location())
	if !boundary.After(t) {
		boundary = time.Date(t.Year(), t.Month(), t.Day()+1, q.End, 0, 0, 0, t.Location())
	}
	return boundary
}
