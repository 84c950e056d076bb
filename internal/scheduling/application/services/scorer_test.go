package services

import (
	"testing"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingsAt(t *testing.T, ownerID uuid.UUID, starts ...time.Time) []*domain.Booking {
	t.Helper()
	result := make([]*domain.Booking, 0, len(starts))
	for _, start := range starts {
		b, err := domain.NewBooking(ownerID, "filler", "", start, start.Add(30*time.Minute), 5, domain.PriorityMedium)
		require.NoError(t, err)
		result = append(result, b)
	}
	return result
}

func TestSlotScorer_Score(t *testing.T) {
	scorer := NewSlotScorer()
	ownerID := uuid.New()
	pref := domain.DefaultPreference(ownerID) // prefer-morning on

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	t.Run("morning slot on a light day", func(t *testing.T) {
		score := scorer.Score(monday.Add(9*time.Hour), 5, nil, pref)
		assert.Equal(t, 135.0, score) // 100 + 20 morning + 15 light day
	})

	t.Run("late afternoon is penalized", func(t *testing.T) {
		score := scorer.Score(monday.Add(15*time.Hour), 5, nil, pref)
		assert.Equal(t, 105.0, score) // 100 - 10 late + 15 light day
	})

	t.Run("early afternoon is neutral", func(t *testing.T) {
		score := scorer.Score(monday.Add(13*time.Hour), 5, nil, pref)
		assert.Equal(t, 115.0, score)
	})

	t.Run("no morning adjustment when preference is off", func(t *testing.T) {
		late := domain.DefaultPreference(ownerID)
		late.SetPreferMorning(false)

		score := scorer.Score(monday.Add(9*time.Hour), 5, nil, late)
		assert.Equal(t, 115.0, score)
	})

	t.Run("moderate day load is neutral", func(t *testing.T) {
		week := bookingsAt(t, ownerID,
			monday.Add(9*time.Hour), monday.Add(10*time.Hour), monday.Add(11*time.Hour))

		score := scorer.Score(monday.Add(13*time.Hour), 5, week, pref)
		assert.Equal(t, 100.0, score)
	})

	t.Run("overloaded day is penalized", func(t *testing.T) {
		var starts []time.Time
		for i := 0; i < 7; i++ {
			starts = append(starts, monday.Add(time.Duration(9+i)*time.Hour))
		}
		week := bookingsAt(t, ownerID, starts...)

		score := scorer.Score(monday.Add(17*time.Hour), 5, week, pref)
		assert.Equal(t, 75.0, score) // 100 - 10 late - 15 overloaded
	})

	t.Run("load counts only the slot's own day", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		week := bookingsAt(t, ownerID,
			tuesday.Add(9*time.Hour), tuesday.Add(10*time.Hour), tuesday.Add(11*time.Hour))

		score := scorer.Score(monday.Add(9*time.Hour), 5, week, pref)
		assert.Equal(t, 135.0, score)
	})

	t.Run("high priority gets a weekday bonus", func(t *testing.T) {
		score := scorer.Score(monday.Add(9*time.Hour), 8, nil, pref)
		assert.Equal(t, 145.0, score) // 135 + 10 weekday
	})

	t.Run("high priority is nudged off weekends", func(t *testing.T) {
		score := scorer.Score(saturday.Add(10*time.Hour), 8, nil, pref)
		assert.Equal(t, 130.0, score) // 100 + 20 morning + 15 light - 5 weekend
	})

	t.Run("low priority has no weekend adjustment", func(t *testing.T) {
		score := scorer.Score(saturday.Add(10*time.Hour), 5, nil, pref)
		assert.Equal(t, 135.0, score)
	})
}
