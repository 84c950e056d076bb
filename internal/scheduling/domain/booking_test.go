package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	ownerID := uuid.New()
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("creates booking with valid fields", func(t *testing.T) {
		b, err := NewBooking(ownerID, "Write report", "quarterly numbers", start, end, 5, PriorityMedium)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, ownerID, b.OwnerID())
		assert.Equal(t, "Write report", b.Title())
		assert.Equal(t, "quarterly numbers", b.Description())
		assert.Equal(t, start, b.Start())
		assert.Equal(t, end, b.End())
		assert.Equal(t, 5, b.Rank())
		assert.Equal(t, PriorityMedium, b.Tag())
		assert.Equal(t, time.Hour, b.Duration())
	})

	t.Run("emits scheduled event", func(t *testing.T) {
		b, err := NewBooking(ownerID, "Write report", "", start, end, 5, PriorityMedium)

		require.NoError(t, err)
		events := b.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, RoutingKeyBookingScheduled, events[0].RoutingKey())
		assert.Equal(t, b.ID(), events[0].AggregateID())
	})

	t.Run("derives tag from rank when missing", func(t *testing.T) {
		b, err := NewBooking(ownerID, "Call dentist", "", start, end, 8, "")

		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, b.Tag())
	})

	t.Run("normalizes times to UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		localStart := time.Date(2025, 1, 6, 10, 0, 0, 0, loc)

		b, err := NewBooking(ownerID, "Standup", "", localStart, localStart.Add(time.Hour), 5, PriorityMedium)

		require.NoError(t, err)
		assert.Equal(t, time.UTC, b.Start().Location())
		assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), b.Start())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewBooking(ownerID, "", "", start, end, 5, PriorityMedium)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewBooking(ownerID, "Write report", "", end, start, 5, PriorityMedium)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects zero-length interval", func(t *testing.T) {
		_, err := NewBooking(ownerID, "Write report", "", start, start, 5, PriorityMedium)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects rank out of band", func(t *testing.T) {
		_, err := NewBooking(ownerID, "Write report", "", start, end, 0, PriorityMedium)
		assert.ErrorIs(t, err, ErrInvalidRank)

		_, err = NewBooking(ownerID, "Write report", "", start, end, 11, PriorityMedium)
		assert.ErrorIs(t, err, ErrInvalidRank)
	})
}

func TestBooking_Overlaps(t *testing.T) {
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	b, err := NewBooking(uuid.New(), "Focus block", "", start, end, 5, PriorityMedium)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", start, end, true},
		{"contained interval", start.Add(10 * time.Minute), end.Add(-10 * time.Minute), true},
		{"overlapping head", start.Add(-30 * time.Minute), start.Add(30 * time.Minute), true},
		{"overlapping tail", end.Add(-30 * time.Minute), end.Add(30 * time.Minute), true},
		{"adjacent before", start.Add(-time.Hour), start, false},
		{"adjacent after", end, end.Add(time.Hour), false},
		{"disjoint", end.Add(time.Hour), end.Add(2 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(tt.start, tt.end))
		})
	}
}

func TestBooking_Move(t *testing.T) {
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("rewrites times and records displacement", func(t *testing.T) {
		b, err := NewBooking(uuid.New(), "Focus block", "", start, end, 5, PriorityMedium)
		require.NoError(t, err)
		b.ClearDomainEvents()

		newStart := start.Add(3 * time.Hour)
		require.NoError(t, b.Move(newStart, newStart.Add(time.Hour)))

		assert.Equal(t, newStart, b.Start())
		assert.Equal(t, newStart.Add(time.Hour), b.End())

		events := b.DomainEvents()
		require.Len(t, events, 1)
		displaced, ok := events[0].(BookingDisplaced)
		require.True(t, ok)
		assert.Equal(t, start, displaced.OldStart)
		assert.Equal(t, newStart, displaced.NewStart)
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		b, err := NewBooking(uuid.New(), "Focus block", "", start, end, 5, PriorityMedium)
		require.NoError(t, err)

		err = b.Move(end, start)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
		assert.Equal(t, start, b.Start())
	})
}

func TestBooking_Reprioritize(t *testing.T) {
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	b, err := NewBooking(uuid.New(), "Focus block", "", start, start.Add(time.Hour), 5, PriorityMedium)
	require.NoError(t, err)

	require.NoError(t, b.Reprioritize(10))
	assert.Equal(t, 10, b.Rank())
	assert.Equal(t, PriorityUrgent, b.Tag())
	assert.True(t, b.IsProtected())

	assert.ErrorIs(t, b.Reprioritize(0), ErrInvalidRank)
}

func TestBooking_IsProtected(t *testing.T) {
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	low, err := NewBooking(uuid.New(), "Stretch", "", start, start.Add(time.Hour), 3, PriorityLow)
	require.NoError(t, err)
	assert.False(t, low.IsProtected())

	urgent, err := NewBooking(uuid.New(), "Tax deadline", "", start, start.Add(time.Hour), 10, PriorityUrgent)
	require.NoError(t, err)
	assert.True(t, urgent.IsProtected())
}

func TestRehydrateBooking(t *testing.T) {
	id := uuid.New()
	ownerID := uuid.New()
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	createdAt := start.Add(-48 * time.Hour)

	b := RehydrateBooking(id, ownerID, "Focus block", "deep work", start, start.Add(time.Hour), 8, PriorityHigh, createdAt, createdAt)

	assert.Equal(t, id, b.ID())
	assert.Equal(t, ownerID, b.OwnerID())
	assert.Equal(t, createdAt, b.CreatedAt())
	assert.Equal(t, 8, b.Rank())
	assert.Empty(t, b.DomainEvents(), "rehydration must not emit events")
}
