package services

import (
	"sort"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
)

// AvailabilityFinder computes free intervals within a day window, honoring
// lunch breaks and inter-task buffers from the owner's preference.
type AvailabilityFinder struct{}

// NewAvailabilityFinder creates a new AvailabilityFinder.
func NewAvailabilityFinder() *AvailabilityFinder {
	return &AvailabilityFinder{}
}

// BusyFromBookings converts bookings into busy intervals for the free-slot
// walk. Bookings with a missing start or end are skipped.
func BusyFromBookings(bookings []*domain.Booking) []domain.TimeSlot {
	busy := make([]domain.TimeSlot, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || b.Start().IsZero() || b.End().IsZero() {
			continue
		}
		busy = append(busy, domain.TimeSlot{Start: b.Start(), End: b.End()})
	}
	return busy
}

// FreeIntervals walks a cursor from windowStart across the busy intervals
// (sorted by start) and emits every gap of at least minDuration, in order.
//
// A gap straddling lunchStart is withheld: placing a task there would have
// it interrupted by lunch. Lunch is a soft filter, not a booked interval,
// so gaps with slack outside lunch are still offered. The trailing
// end-of-window gap is never lunch-filtered.
//
// buffer is added after each consumed interval before the next gap is
// tested, keeping the configured breathing room between consecutive tasks.
func (f *AvailabilityFinder) FreeIntervals(
	busy []domain.TimeSlot,
	windowStart, windowEnd time.Time,
	minDuration time.Duration,
	lunchStart time.Time,
	buffer time.Duration,
) []domain.TimeSlot {
	sorted := make([]domain.TimeSlot, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	slots := make([]domain.TimeSlot, 0)
	cursor := windowStart

	for _, interval := range sorted {
		if interval.Start.IsZero() || interval.End.IsZero() {
			continue
		}

		if cursor.Before(interval.Start) {
			straddlesLunch := !lunchStart.IsZero() &&
				!cursor.After(lunchStart) && lunchStart.Before(interval.Start)
			if !straddlesLunch && interval.Start.Sub(cursor) >= minDuration {
				slots = append(slots, domain.TimeSlot{Start: cursor, End: interval.Start})
			}
		}

		if interval.End.After(cursor) {
			cursor = interval.End
		}
		if buffer > 0 {
			cursor = cursor.Add(buffer)
		}
	}

	if cursor.Before(windowEnd) && windowEnd.Sub(cursor) >= minDuration {
		slots = append(slots, domain.TimeSlot{Start: cursor, End: windowEnd})
	}

	return slots
}

// FreeIntervalsForDay derives the day window and lunch settings from the
// owner's preference, clamps the window to notBefore (so today's slots
// never start in the past), and delegates to FreeIntervals.
func (f *AvailabilityFinder) FreeIntervalsForDay(
	bookings []*domain.Booking,
	date time.Time,
	pref *domain.Preference,
	minDuration time.Duration,
	notBefore time.Time,
) []domain.TimeSlot {
	dayStart, dayEnd := pref.DayWindow(date)
	if notBefore.After(dayStart) {
		dayStart = notBefore
	}
	if !dayStart.Before(dayEnd) {
		return nil
	}

	lunchStart, _ := pref.LunchWindow(date)
	buffer := time.Duration(pref.BreakMinutes()) * time.Minute

	return f.FreeIntervals(BusyFromBookings(bookings), dayStart, dayEnd, minDuration, lunchStart, buffer)
}
