package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/temposched/tempo/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidRank      = errors.New("priority rank must be between 1 and 10")
	ErrEmptyTitle       = errors.New("booking title cannot be empty")
	ErrBookingNotFound  = errors.New("booking not found")
)

// Booking is a scheduled task on a user's calendar. Bookings for one user
// never overlap; the scheduler enforces this on every placement and move.
type Booking struct {
	sharedDomain.BaseAggregateRoot
	ownerID     uuid.UUID
	title       string
	description string
	start       time.Time
	end         time.Time
	rank        int
	tag         PriorityTag
}

// NewBooking creates a booking. Times are normalized to UTC; the rank and
// tag travel together, with the tag derived from the rank band when the two
// disagree.
func NewBooking(
	ownerID uuid.UUID,
	title string,
	description string,
	start, end time.Time,
	rank int,
	tag PriorityTag,
) (*Booking, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}
	if rank < 1 || rank > 10 {
		return nil, ErrInvalidRank
	}
	if tag == "" {
		tag = TagForRank(rank)
	}

	b := &Booking{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		title:             title,
		description:       description,
		start:             start.UTC(),
		end:               end.UTC(),
		rank:              rank,
		tag:               tag,
	}

	b.AddDomainEvent(NewBookingScheduled(b))

	return b, nil
}

// Getters
func (b *Booking) OwnerID() uuid.UUID  { return b.ownerID }
func (b *Booking) Title() string       { return b.title }
func (b *Booking) Description() string { return b.description }
func (b *Booking) Start() time.Time    { return b.start }
func (b *Booking) End() time.Time      { return b.end }
func (b *Booking) Rank() int           { return b.rank }
func (b *Booking) Tag() PriorityTag    { return b.tag }

// Duration returns the booking length.
func (b *Booking) Duration() time.Duration {
	return b.end.Sub(b.start)
}

// IsProtected reports whether this booking may never be displaced.
func (b *Booking) IsProtected() bool {
	return IsProtectedRank(b.rank)
}

// Overlaps applies the half-open overlap test against another interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.start.Before(end) && b.end.After(start)
}

// Move rewrites the booking's times. Used by the displacement engine when
// the booking is bumped and by explicit update requests.
func (b *Booking) Move(newStart, newEnd time.Time) error {
	if !newEnd.After(newStart) {
		return ErrInvalidTimeRange
	}

	oldStart, oldEnd := b.start, b.end
	b.start = newStart.UTC()
	b.end = newEnd.UTC()
	b.Touch()

	b.AddDomainEvent(NewBookingDisplaced(b, oldStart, oldEnd))

	return nil
}

// Retitle updates the title and description.
func (b *Booking) Retitle(title, description string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	b.title = title
	b.description = description
	b.Touch()
	return nil
}

// Reprioritize changes the booking's rank and mirrors the tag.
func (b *Booking) Reprioritize(rank int) error {
	if rank < 1 || rank > 10 {
		return ErrInvalidRank
	}
	b.rank = rank
	b.tag = TagForRank(rank)
	b.Touch()
	return nil
}

// RehydrateBooking recreates a booking from persisted state without
// emitting events.
func RehydrateBooking(
	id uuid.UUID,
	ownerID uuid.UUID,
	title string,
	description string,
	start, end time.Time,
	rank int,
	tag PriorityTag,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		ownerID:     ownerID,
		title:       title,
		description: description,
		start:       start.UTC(),
		end:         end.UTC(),
		rank:        rank,
		tag:         tag,
	}
}
