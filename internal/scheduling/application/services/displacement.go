package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/temposched/tempo/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// DisplacementRecord captures one booking that was bumped to make room
// for a higher-priority booking.
type DisplacementRecord struct {
	BookingID uuid.UUID
	Title     string
	OldStart  time.Time
	OldEnd    time.Time
	NewStart  time.Time
	NewEnd    time.Time
	Tag       domain.PriorityTag
}

// DisplacementEngine relocates lower-priority bookings out of a proposed
// interval. Victims are processed lowest rank first and each relocation is
// committed independently, so a failure partway through keeps all prior
// relocations.
type DisplacementEngine struct {
	bookings  domain.BookingRepository
	conflicts *ConflictDetector
	finder    *SlotFinder
	publisher eventbus.Publisher
	config    SchedulerConfig
	logger    *slog.Logger
}

// NewDisplacementEngine creates a new DisplacementEngine.
func NewDisplacementEngine(
	bookings domain.BookingRepository,
	conflicts *ConflictDetector,
	finder *SlotFinder,
	publisher eventbus.Publisher,
	config SchedulerConfig,
	logger *slog.Logger,
) *DisplacementEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisplacementEngine{
		bookings:  bookings,
		conflicts: conflicts,
		finder:    finder,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// DisplaceForNewBooking bumps every strictly lower-priority booking that
// overlaps [newStart, newEnd) to the earliest slot after the interval.
// Protected bookings and peers at or above newRank are left untouched.
// A victim with no slot within the displacement horizon stays in place
// and produces no record.
func (e *DisplacementEngine) DisplaceForNewBooking(
	ctx context.Context,
	ownerID uuid.UUID,
	newStart, newEnd time.Time,
	newRank int,
) ([]DisplacementRecord, error) {
	victims, err := e.conflicts.ConflictingBookings(ctx, ownerID, newStart, newEnd)
	if err != nil {
		return nil, err
	}

	reserved := &domain.TimeSlot{Start: newStart, End: newEnd}
	searchFrom := startOfDay(newEnd)

	records := make([]DisplacementRecord, 0, len(victims))
	for _, victim := range victims {
		if victim.IsProtected() {
			e.logger.Debug("skipping protected booking",
				slog.String("booking_id", victim.ID().String()),
				slog.Int("rank", victim.Rank()))
			continue
		}
		if victim.Rank() >= newRank {
			continue
		}

		slot, err := e.finder.FirstSlot(ctx, ownerID, victim.Duration(), searchFrom, e.config.MaxDisplacementDays, reserved)
		if err != nil {
			return records, err
		}
		if slot == nil {
			e.logger.Warn("no relocation slot for displaced booking",
				slog.String("booking_id", victim.ID().String()),
				slog.String("title", victim.Title()))
			continue
		}

		record := DisplacementRecord{
			BookingID: victim.ID(),
			Title:     victim.Title(),
			OldStart:  victim.Start(),
			OldEnd:    victim.End(),
			NewStart:  slot.Start,
			NewEnd:    slot.End,
			Tag:       victim.Tag(),
		}

		if err := victim.Move(slot.Start, slot.End); err != nil {
			return records, err
		}
		if err := e.bookings.UpdateTimes(ctx, victim.ID(), slot.Start, slot.End); err != nil {
			return records, err
		}

		eventbus.PublishEvents(ctx, e.publisher, e.logger, victim.DomainEvents()...)
		victim.ClearDomainEvents()

		e.logger.Info("displaced booking",
			slog.String("booking_id", victim.ID().String()),
			slog.Time("old_start", record.OldStart),
			slog.Time("new_start", record.NewStart))

		records = append(records, record)
	}

	return records, nil
}
