package services

import (
	"context"
	"strings"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
)

// WindowHint narrows a slot search to a rough timeframe.
type WindowHint string

const (
	WindowAny      WindowHint = ""
	WindowToday    WindowHint = "today"
	WindowTomorrow WindowHint = "tomorrow"
	WindowThisWeek WindowHint = "this_week"
	WindowWeekend  WindowHint = "weekend"
)

// ParseWindowHint maps free-form input to a window hint. Unrecognized
// input means no constraint.
func ParseWindowHint(text string) WindowHint {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "today":
		return WindowToday
	case "tomorrow":
		return WindowTomorrow
	case "this_week", "this week", "week":
		return WindowThisWeek
	case "weekend", "this_weekend":
		return WindowWeekend
	default:
		return WindowAny
	}
}

// SchedulerConfig bounds the slot searches. Explicit configuration rather
// than package globals so per-user and per-test overrides cannot leak.
type SchedulerConfig struct {
	// MaxLookaheadDays bounds direct placement searches.
	MaxLookaheadDays int
	// MaxDisplacementDays bounds how far a bumped booking may be pushed.
	MaxDisplacementDays int
}

// DefaultSchedulerConfig returns the default search bounds.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxLookaheadDays:    7,
		MaxDisplacementDays: 30,
	}
}

// SlotSearch describes one best-slot search.
type SlotSearch struct {
	Duration        time.Duration
	Rank            int
	Hint            WindowHint
	ExcludeWeekends bool
	MaxDaysAhead    int
	// Now is the reference instant for the search. Slots never start
	// before it.
	Now time.Time
}

// SlotFinder enumerates eligible days, collects free intervals, and picks
// the best-scoring candidate.
type SlotFinder struct {
	bookings domain.BookingRepository
	prefs    domain.PreferenceRepository
	finder   *AvailabilityFinder
	scorer   *SlotScorer
	config   SchedulerConfig
}

// NewSlotFinder creates a new SlotFinder.
func NewSlotFinder(
	bookings domain.BookingRepository,
	prefs domain.PreferenceRepository,
	finder *AvailabilityFinder,
	scorer *SlotScorer,
	config SchedulerConfig,
) *SlotFinder {
	return &SlotFinder{
		bookings: bookings,
		prefs:    prefs,
		finder:   finder,
		scorer:   scorer,
		config:   config,
	}
}

// BestSlot returns the highest-scoring free slot matching the search, or
// nil when the calendar has no room. Candidates are visited in day order
// with earliest-first slots, and only a strictly better score replaces the
// current best, so ties resolve to the earliest start.
func (f *SlotFinder) BestSlot(ctx context.Context, ownerID uuid.UUID, search SlotSearch) (*domain.TimeSlot, error) {
	pref, err := f.prefs.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := search.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	maxDays := search.MaxDaysAhead
	if maxDays <= 0 {
		maxDays = f.config.MaxLookaheadDays
	}

	horizonStart := startOfDay(now)
	horizonEnd := horizonStart.AddDate(0, 0, maxDays)
	horizon, err := f.bookings.ListByOwnerAndRange(ctx, ownerID, horizonStart, horizonEnd)
	if err != nil {
		return nil, err
	}

	var best *domain.TimeSlot
	bestScore := -1.0

	for offset := 0; offset < maxDays; offset++ {
		day := horizonStart.AddDate(0, 0, offset)
		if !f.dayEligible(day, offset, pref, search) {
			continue
		}

		dayBookings := bookingsOnDay(horizon, day)
		slots := f.finder.FreeIntervalsForDay(dayBookings, day, pref, search.Duration, now)

		for _, slot := range slots {
			score := f.scorer.Score(slot.Start, search.Rank, horizon, pref)
			if score > bestScore {
				bestScore = score
				chosen := domain.TimeSlot{Start: slot.Start, End: slot.Start.Add(search.Duration)}
				best = &chosen
			}
		}
	}

	return best, nil
}

// FirstSlot returns the earliest free slot of the given duration at or
// after from, scanning up to maxDays ahead. reserved, when non-nil, is
// treated as already booked; the displacement engine uses it to keep
// bumped bookings clear of the incoming booking's proposed interval.
func (f *SlotFinder) FirstSlot(
	ctx context.Context,
	ownerID uuid.UUID,
	duration time.Duration,
	from time.Time,
	maxDays int,
	reserved *domain.TimeSlot,
) (*domain.TimeSlot, error) {
	pref, err := f.prefs.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if maxDays <= 0 {
		maxDays = f.config.MaxDisplacementDays
	}

	horizonStart := startOfDay(from)
	horizonEnd := horizonStart.AddDate(0, 0, maxDays)
	horizon, err := f.bookings.ListByOwnerAndRange(ctx, ownerID, horizonStart, horizonEnd)
	if err != nil {
		return nil, err
	}

	for offset := 0; offset < maxDays; offset++ {
		day := horizonStart.AddDate(0, 0, offset)

		busy := BusyFromBookings(bookingsOnDay(horizon, day))
		if reserved != nil {
			busy = append(busy, *reserved)
		}

		dayStart, dayEnd := pref.DayWindow(day)
		if from.After(dayStart) {
			dayStart = from
		}
		if !dayStart.Before(dayEnd) {
			continue
		}

		lunchStart, _ := pref.LunchWindow(day)
		buffer := time.Duration(pref.BreakMinutes()) * time.Minute

		slots := f.finder.FreeIntervals(busy, dayStart, dayEnd, duration, lunchStart, buffer)
		if len(slots) > 0 {
			found := domain.TimeSlot{Start: slots[0].Start, End: slots[0].Start.Add(duration)}
			return &found, nil
		}
	}

	return nil, nil
}

// NextWeekend returns the upcoming Saturday 10:00 through Sunday 20:00
// window. A request late on a Saturday rolls to the following weekend.
func NextWeekend(from time.Time) (time.Time, time.Time) {
	daysUntilSaturday := (int(time.Saturday) - int(from.Weekday()) + 7) % 7
	if daysUntilSaturday == 0 && from.Hour() >= 18 {
		daysUntilSaturday = 7
	}

	saturday := startOfDay(from).AddDate(0, 0, daysUntilSaturday)
	saturdayStart := saturday.Add(10 * time.Hour)
	sundayEnd := saturday.AddDate(0, 0, 1).Add(20 * time.Hour)

	return saturdayStart, sundayEnd
}

func (f *SlotFinder) dayEligible(day time.Time, offset int, pref *domain.Preference, search SlotSearch) bool {
	isWeekend := pref.IsWeekendDay(day)

	if search.ExcludeWeekends && isWeekend {
		return false
	}

	switch search.Hint {
	case WindowToday:
		if offset != 0 {
			return false
		}
	case WindowTomorrow:
		if offset != 1 {
			return false
		}
	case WindowWeekend:
		if !isWeekend {
			return false
		}
	case WindowThisWeek:
		// Bounded by the caller's lookahead; no extra filter beyond the
		// work-day test below.
	}

	return isWeekend || pref.IsWorkDay(day)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func bookingsOnDay(bookings []*domain.Booking, day time.Time) []*domain.Booking {
	y, m, d := day.Date()
	result := make([]*domain.Booking, 0)
	for _, b := range bookings {
		by, bm, bd := b.Start().Date()
		if by == y && bm == m && bd == d {
			result = append(result, b)
		}
	}
	return result
}
