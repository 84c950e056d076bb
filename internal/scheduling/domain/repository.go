package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the interface for booking persistence.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking, or ErrBookingNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListByOwnerAndRange returns an owner's bookings starting within
	// [start, end), ordered by start time.
	ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*Booking, error)

	// ListOverlapping returns an owner's bookings overlapping [start, end)
	// under the half-open test, ordered by ascending priority rank (most
	// displaceable first). excludeID, when non-nil, omits one booking so
	// update flows can test a slot against everything else.
	ListOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*Booking, error)

	// UpdateTimes rewrites a booking's start and end in a single write.
	UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error

	// Update persists title, description, priority, and time changes.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PreferenceRepository defines the interface for scheduling preference
// persistence.
type PreferenceRepository interface {
	// GetOrCreate returns the owner's preference, creating and persisting
	// the default one on first access.
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*Preference, error)

	// Save persists preference changes.
	Save(ctx context.Context, pref *Preference) error
}
