package domain

import (
	"time"

	sharedDomain "github.com/temposched/tempo/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Booking"

	RoutingKeyBookingScheduled   = "scheduling.booking.scheduled"
	RoutingKeyBookingDisplaced   = "scheduling.booking.displaced"
	RoutingKeyBookingRescheduled = "scheduling.booking.rescheduled"
	RoutingKeyBookingCancelled   = "scheduling.booking.cancelled"
)

// BookingScheduled is emitted when a booking is placed on the calendar.
type BookingScheduled struct {
	sharedDomain.BaseEvent
	OwnerID uuid.UUID   `json:"owner_id"`
	Title   string      `json:"title"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Rank    int         `json:"rank"`
	Tag     PriorityTag `json:"tag"`
}

// NewBookingScheduled creates a BookingScheduled event.
func NewBookingScheduled(b *Booking) BookingScheduled {
	return BookingScheduled{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), AggregateType, RoutingKeyBookingScheduled),
		OwnerID:   b.OwnerID(),
		Title:     b.Title(),
		Start:     b.Start(),
		End:       b.End(),
		Rank:      b.Rank(),
		Tag:       b.Tag(),
	}
}

// BookingDisplaced is emitted when a booking is bumped to a new time to
// make room for a higher-priority one.
type BookingDisplaced struct {
	sharedDomain.BaseEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	Title    string    `json:"title"`
	OldStart time.Time `json:"old_start"`
	OldEnd   time.Time `json:"old_end"`
	NewStart time.Time `json:"new_start"`
	NewEnd   time.Time `json:"new_end"`
}

// NewBookingDisplaced creates a BookingDisplaced event.
func NewBookingDisplaced(b *Booking, oldStart, oldEnd time.Time) BookingDisplaced {
	return BookingDisplaced{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), AggregateType, RoutingKeyBookingDisplaced),
		OwnerID:   b.OwnerID(),
		Title:     b.Title(),
		OldStart:  oldStart,
		OldEnd:    oldEnd,
		NewStart:  b.Start(),
		NewEnd:    b.End(),
	}
}

// BookingRescheduled is emitted when an explicit reschedule request moves a
// booking (delete old, create new).
type BookingRescheduled struct {
	sharedDomain.BaseEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	Title    string    `json:"title"`
	OldStart time.Time `json:"old_start"`
	NewStart time.Time `json:"new_start"`
}

// NewBookingRescheduled creates a BookingRescheduled event.
func NewBookingRescheduled(b *Booking, oldStart time.Time) BookingRescheduled {
	return BookingRescheduled{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), AggregateType, RoutingKeyBookingRescheduled),
		OwnerID:   b.OwnerID(),
		Title:     b.Title(),
		OldStart:  oldStart,
		NewStart:  b.Start(),
	}
}

// BookingCancelled is emitted when a booking is deleted.
type BookingCancelled struct {
	sharedDomain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
}

// NewBookingCancelled creates a BookingCancelled event.
func NewBookingCancelled(b *Booking) BookingCancelled {
	return BookingCancelled{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), AggregateType, RoutingKeyBookingCancelled),
		OwnerID:   b.OwnerID(),
		Title:     b.Title(),
	}
}
