package services

import (
	"context"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ConflictDetector tests proposed intervals against an owner's existing
// bookings using the half-open overlap rule.
type ConflictDetector struct {
	bookings domain.BookingRepository
}

// NewConflictDetector creates a new ConflictDetector.
func NewConflictDetector(bookings domain.BookingRepository) *ConflictDetector {
	return &ConflictDetector{bookings: bookings}
}

// HasConflict reports whether [start, end) overlaps any of the owner's
// bookings. excludeID, when non-nil, omits one booking so update flows can
// test a new slot against everything except the booking being moved.
func (d *ConflictDetector) HasConflict(
	ctx context.Context,
	ownerID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) (bool, error) {
	overlapping, err := d.bookings.ListOverlapping(ctx, ownerID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(overlapping) > 0, nil
}

// ConflictingBookings returns all bookings overlapping [start, end),
// ordered by ascending priority rank: the most displaceable first.
func (d *ConflictDetector) ConflictingBookings(
	ctx context.Context,
	ownerID uuid.UUID,
	start, end time.Time,
) ([]*domain.Booking, error) {
	return d.bookings.ListOverlapping(ctx, ownerID, start, end, nil)
}
