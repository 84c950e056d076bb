package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedApplication "github.com/temposched/tempo/internal/shared/application"
	"github.com/temposched/tempo/internal/shared/infrastructure/eventbus"
	"github.com/temposched/tempo/internal/shared/infrastructure/locking"
	"github.com/google/uuid"
)

// matchHorizonDays bounds how far ahead a reschedule looks for the booking
// to move.
const matchHorizonDays = 30

// RescheduleTaskCommand contains the data needed to move an existing
// booking.
type RescheduleTaskCommand struct {
	OwnerID uuid.UUID
	// MatchHint is a title fragment identifying the booking to move.
	MatchHint string
	// NewTimeHint is the target window (today/tomorrow/this_week/weekend),
	// empty for the next available slot.
	NewTimeHint string
	// Now is the reference instant; zero means the wall clock.
	Now time.Time
}

// RescheduleTaskHandler handles the RescheduleTaskCommand.
//
// The move is delete-then-schedule: the old booking is removed first so
// its slot is free for the new search, and recreated unchanged when no
// new slot exists. A recreate failure after a failed placement leaves the
// booking gone, so it is surfaced as an error rather than a result.
type RescheduleTaskHandler struct {
	bookings  domain.BookingRepository
	scheduler *ScheduleTaskHandler
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	lock      locking.UserLock
	logger    *slog.Logger
}

// NewRescheduleTaskHandler creates a new RescheduleTaskHandler.
func NewRescheduleTaskHandler(
	bookings domain.BookingRepository,
	scheduler *ScheduleTaskHandler,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	lock locking.UserLock,
	logger *slog.Logger,
) *RescheduleTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RescheduleTaskHandler{
		bookings:  bookings,
		scheduler: scheduler,
		uow:       uow,
		publisher: publisher,
		lock:      lock,
		logger:    logger,
	}
}

// Handle executes the RescheduleTaskCommand.
func (h *RescheduleTaskHandler) Handle(ctx context.Context, cmd RescheduleTaskCommand) (*SchedulingResult, error) {
	release, err := h.lock.Acquire(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	matches, err := h.findMatches(ctx, cmd.OwnerID, cmd.MatchHint, now)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return &SchedulingResult{
			Success: false,
			Message: fmt.Sprintf("No upcoming booking matches %q.", cmd.MatchHint),
		}, nil
	case 1:
		// fall through to the move
	default:
		return &SchedulingResult{
			Success:    false,
			Message:    fmt.Sprintf("%d bookings match %q. Which one did you mean?", len(matches), cmd.MatchHint),
			Candidates: matches,
		}, nil
	}

	original := matches[0]
	oldStart := original.Start()

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.bookings.Delete(txCtx, original.ID())
	})
	if err != nil {
		return nil, err
	}

	result, err := h.scheduler.schedule(ctx, ScheduleTaskCommand{
		OwnerID:         cmd.OwnerID,
		Title:           original.Title(),
		Description:     original.Description(),
		DurationMinutes: int(original.Duration() / time.Minute),
		Rank:            original.Rank(),
		Tag:             original.Tag(),
		PreferredWhen:   cmd.NewTimeHint,
		Now:             now,
	})

	if err != nil || !result.Success {
		if restoreErr := h.restore(ctx, original); restoreErr != nil {
			h.logger.Error("failed to restore booking after failed reschedule",
				slog.String("booking_id", original.ID().String()),
				slog.String("title", original.Title()),
				slog.Any("error", restoreErr))
			return nil, fmt.Errorf("reschedule failed and booking %q could not be restored: %w", original.Title(), restoreErr)
		}
		if err != nil {
			return nil, err
		}
		result.Message = fmt.Sprintf("Couldn't find a new slot for %q; it stays at %s.",
			original.Title(), formatSlot(original.Start(), original.End()))
		return result, nil
	}

	event := domain.NewBookingRescheduled(result.Booking, oldStart)
	eventbus.PublishEvents(ctx, h.publisher, h.logger, event)

	result.Message = fmt.Sprintf("Moved %q to %s.",
		result.Booking.Title(), formatSlot(result.Booking.Start(), result.Booking.End()))
	return result, nil
}

// findMatches returns bookings whose title matches the hint,
// case-insensitive in both directions. The search starts at the beginning
// of now's day so a booking already in progress can still be moved;
// bookings that have ended are skipped.
func (h *RescheduleTaskHandler) findMatches(ctx context.Context, ownerID uuid.UUID, hint string, now time.Time) ([]*domain.Booking, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	upcoming, err := h.bookings.ListByOwnerAndRange(ctx, ownerID, dayStart, now.AddDate(0, 0, matchHorizonDays))
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(hint))
	if needle == "" {
		return nil, nil
	}

	var matches []*domain.Booking
	for _, b := range upcoming {
		if !b.End().After(now) {
			continue
		}
		title := strings.ToLower(b.Title())
		if strings.Contains(title, needle) || strings.Contains(needle, title) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// restore recreates the original booking unchanged, preserving its ID,
// times, and priority.
func (h *RescheduleTaskHandler) restore(ctx context.Context, original *domain.Booking) error {
	restored := domain.RehydrateBooking(
		original.ID(),
		original.OwnerID(),
		original.Title(),
		original.Description(),
		original.Start(),
		original.End(),
		original.Rank(),
		original.Tag(),
		original.CreatedAt(),
		original.UpdatedAt(),
	)

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.bookings.Create(txCtx, restored)
	})
}
