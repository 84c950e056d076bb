package commands

import (
	"context"
	"testing"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillDays books every day window solid for the given number of days.
func fillDays(t *testing.T, h *harness, ownerID uuid.UUID, from time.Time, days, rank int) {
	t.Helper()
	pref := domain.DefaultPreference(ownerID)
	for offset := 0; offset < days; offset++ {
		day := from.AddDate(0, 0, offset)
		start, end := pref.DayWindow(day)
		h.addBooking(t, ownerID, "blocked", start, int(end.Sub(start)/time.Minute), rank)
	}
}

func TestScheduleTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	now := monday.Add(8 * time.Hour)

	t.Run("places directly on an open calendar", func(t *testing.T) {
		h := newHarness()

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Write report",
			DurationMinutes: 60,
			Rank:            5,
			Tag:             domain.PriorityMedium,
			Now:             now,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.Booking)
		assert.Equal(t, monday.Add(9*time.Hour), result.Booking.Start())
		assert.Equal(t, monday.Add(10*time.Hour), result.Booking.End())
		assert.Empty(t, result.Displacements)
		assert.Contains(t, result.Message, "Scheduled")

		persisted, err := h.repo.FindByID(ctx, result.Booking.ID())
		require.NoError(t, err)
		assert.Equal(t, "Write report", persisted.Title())

		assert.Contains(t, h.publisher.keys, domain.RoutingKeyBookingScheduled)
		assert.GreaterOrEqual(t, h.uow.commits, 1)
	})

	t.Run("fully booked low priority fails without displacement", func(t *testing.T) {
		h := newHarness()
		fillDays(t, h, ownerID, monday, 7, 9)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Stretch goal",
			DurationMinutes: 60,
			Rank:            5,
			Now:             now,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Nil(t, result.Booking)
		assert.Empty(t, result.Displacements)
		assert.Contains(t, result.Message, "fully booked")
		assert.Len(t, h.repo.all(ownerID), 7)
	})

	t.Run("force today displaces a low-priority block", func(t *testing.T) {
		h := newHarness()
		block := h.addBooking(t, ownerID, "Deep work", monday.Add(9*time.Hour), 9*60, 3)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Urgent fix",
			DurationMinutes: 60,
			Rank:            10,
			Tag:             domain.PriorityUrgent,
			ForceToday:      true,
			Now:             now,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.Booking)
		assert.Equal(t, monday.Add(9*time.Hour), result.Booking.Start())

		require.Len(t, result.Displacements, 1)
		assert.Equal(t, block.ID(), result.Displacements[0].BookingID)
		assert.Contains(t, result.Message, "Moved 1 lower-priority")

		moved, err := h.repo.FindByID(ctx, block.ID())
		require.NoError(t, err)
		assert.True(t, moved.Start().After(monday.Add(18*time.Hour)),
			"displaced block must leave the original day window")
	})

	t.Run("high rank displaces without force today", func(t *testing.T) {
		h := newHarness()
		fillDays(t, h, ownerID, monday, 7, 3)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Board prep",
			DurationMinutes: 60,
			Rank:            8,
			Now:             now,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		require.Len(t, result.Displacements, 1)
		assert.Equal(t, monday.Add(9*time.Hour), result.Booking.Start())
	})

	t.Run("forced placement honors the tomorrow hint", func(t *testing.T) {
		h := newHarness()
		fillDays(t, h, ownerID, monday, 7, 3)
		tuesday := monday.AddDate(0, 0, 1)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Client escalation",
			DurationMinutes: 60,
			Rank:            10,
			Tag:             domain.PriorityUrgent,
			PreferredWhen:   "tomorrow",
			Now:             now,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.Booking)
		assert.Equal(t, tuesday.Add(9*time.Hour), result.Booking.Start())

		require.Len(t, result.Displacements, 1)
		assert.Equal(t, tuesday.Add(9*time.Hour), result.Displacements[0].OldStart)

		// The current day keeps its booking; only tomorrow's made room.
		var mondayIntact bool
		for _, b := range h.repo.all(ownerID) {
			if b.Start().Equal(monday.Add(9 * time.Hour)) {
				mondayIntact = true
			}
		}
		assert.True(t, mondayIntact, "today's block must not be displaced")
	})

	t.Run("forced placement honors the weekend hint", func(t *testing.T) {
		h := newHarness()
		fillDays(t, h, ownerID, monday, 7, 3)
		saturday := monday.AddDate(0, 0, 5)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Family lunch",
			DurationMinutes: 60,
			Rank:            10,
			Tag:             domain.PriorityUrgent,
			PreferredWhen:   "weekend",
			Now:             now,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.Booking)
		assert.Equal(t, saturday.Add(10*time.Hour), result.Booking.Start())
	})

	t.Run("protected block cannot be forced out", func(t *testing.T) {
		h := newHarness()
		h.addBooking(t, ownerID, "Flight to Berlin", monday.Add(9*time.Hour), 9*60, 10)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Urgent fix",
			DurationMinutes: 60,
			Rank:            8,
			ForceToday:      true,
			Now:             now,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Nil(t, result.Booking)
		assert.Empty(t, result.Displacements)
		assert.Contains(t, result.Message, "protected")
		assert.Len(t, h.repo.all(ownerID), 1)
	})

	t.Run("displacement gated by preference", func(t *testing.T) {
		h := newHarness()
		pref, err := h.prefs.GetOrCreate(ctx, ownerID)
		require.NoError(t, err)
		pref.SetAllowAutoReschedule(false)

		block := h.addBooking(t, ownerID, "Deep work", monday.Add(9*time.Hour), 9*60, 3)

		result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Urgent fix",
			DurationMinutes: 60,
			Rank:            10,
			ForceToday:      true,
			Now:             now,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "disabled")

		unmoved, err := h.repo.FindByID(ctx, block.ID())
		require.NoError(t, err)
		assert.Equal(t, monday.Add(9*time.Hour), unmoved.Start())
	})

	t.Run("invalid rank surfaces the domain error", func(t *testing.T) {
		h := newHarness()

		_, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
			OwnerID:         ownerID,
			Title:           "Bad request",
			DurationMinutes: 60,
			Rank:            0,
			Now:             now,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRank)
		assert.Equal(t, 1, h.uow.rollbacks)
	})

	t.Run("lock is released between requests", func(t *testing.T) {
		h := newHarness()

		for i := 0; i < 2; i++ {
			result, err := h.scheduler.Handle(ctx, ScheduleTaskCommand{
				OwnerID:         ownerID,
				Title:           "Recurring",
				DurationMinutes: 30,
				Rank:            5,
				Now:             now,
			})
			require.NoError(t, err)
			require.True(t, result.Success)
		}

		assert.Len(t, h.repo.all(ownerID), 2)
	})
}
