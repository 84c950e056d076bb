package domain

import "time"

// TimeSlot is a transient free interval produced by the availability finder
// and consumed immediately by the scorer or orchestrator. Never persisted.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Fits reports whether a task of the given length fits in the slot.
func (s TimeSlot) Fits(d time.Duration) bool {
	return s.Duration() >= d
}

// Overlaps applies the half-open overlap test against another interval.
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
