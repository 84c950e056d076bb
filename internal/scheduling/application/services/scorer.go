package services

import (
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
)

// SlotScorer ranks candidate slots relative to each other within a single
// search. Scores are not calibrated across searches; only their ordering
// matters.
type SlotScorer struct{}

// NewSlotScorer creates a new SlotScorer.
func NewSlotScorer() *SlotScorer {
	return &SlotScorer{}
}

// Score rates a candidate start against the owner's preference and the
// surrounding week. Base 100, with independent additive adjustments:
// morning preference, daily load, and priority/weekend interaction.
func (s *SlotScorer) Score(
	slotStart time.Time,
	rank int,
	weekBookings []*domain.Booking,
	pref *domain.Preference,
) float64 {
	score := 100.0

	if pref.PreferMorning() {
		switch {
		case slotStart.Hour() < 12:
			score += 20
		case slotStart.Hour() >= 15:
			score -= 10
		}
	}

	dayLoad := 0
	y, m, d := slotStart.Date()
	for _, b := range weekBookings {
		by, bm, bd := b.Start().Date()
		if by == y && bm == m && bd == d {
			dayLoad++
		}
	}
	switch {
	case dayLoad < 3:
		score += 15
	case dayLoad > 6:
		score -= 15
	}

	isWeekend := pref.IsWeekendDay(slotStart)
	if rank >= domain.HighPriorityThreshold {
		if isWeekend {
			score -= 5
		} else {
			score += 10
		}
	}

	return score
}
