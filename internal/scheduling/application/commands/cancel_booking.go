package commands

import (
	"context"
	"log/slog"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedApplication "github.com/temposched/tempo/internal/shared/application"
	"github.com/temposched/tempo/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CancelBookingCommand removes a booking from the calendar.
type CancelBookingCommand struct {
	OwnerID   uuid.UUID
	BookingID uuid.UUID
}

// CancelBookingHandler handles the CancelBookingCommand.
type CancelBookingHandler struct {
	bookings  domain.BookingRepository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCancelBookingHandler creates a new CancelBookingHandler.
func NewCancelBookingHandler(
	bookings domain.BookingRepository,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CancelBookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancelBookingHandler{
		bookings:  bookings,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CancelBookingCommand.
func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) error {
	var cancelled *domain.Booking

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		b, err := h.bookings.FindByID(txCtx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.OwnerID() != cmd.OwnerID {
			return domain.ErrBookingNotFound
		}
		if err := h.bookings.Delete(txCtx, cmd.BookingID); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return err
	}

	eventbus.PublishEvents(ctx, h.publisher, h.logger, domain.NewBookingCancelled(cancelled))

	return nil
}
