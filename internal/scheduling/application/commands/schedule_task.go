package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/temposched/tempo/internal/scheduling/application/services"
	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedApplication "github.com/temposched/tempo/internal/shared/application"
	"github.com/temposched/tempo/internal/shared/infrastructure/eventbus"
	"github.com/temposched/tempo/internal/shared/infrastructure/locking"
	"github.com/google/uuid"
)

// ScheduleTaskCommand contains the data needed to schedule a booking.
type ScheduleTaskCommand struct {
	OwnerID         uuid.UUID
	Title           string
	Description     string
	DurationMinutes int
	Rank            int
	Tag             domain.PriorityTag
	PreferredWhen   string
	ForceToday      bool
	// Now is the reference instant; zero means the wall clock.
	Now time.Time
}

// SchedulingResult is the outcome of a schedule or reschedule request.
// A full calendar is a normal outcome, not an error: Success is false and
// Message explains why.
type SchedulingResult struct {
	Success       bool
	Booking       *domain.Booking
	Displacements []services.DisplacementRecord
	Message       string
	// Candidates is populated when a reschedule match is ambiguous.
	Candidates []*domain.Booking
}

// ScheduleTaskHandler handles the ScheduleTaskCommand.
type ScheduleTaskHandler struct {
	bookings  domain.BookingRepository
	prefs     domain.PreferenceRepository
	finder    *services.SlotFinder
	engine    *services.DisplacementEngine
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	lock      locking.UserLock
	config    services.SchedulerConfig
	logger    *slog.Logger
}

// NewScheduleTaskHandler creates a new ScheduleTaskHandler.
func NewScheduleTaskHandler(
	bookings domain.BookingRepository,
	prefs domain.PreferenceRepository,
	finder *services.SlotFinder,
	engine *services.DisplacementEngine,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	lock locking.UserLock,
	config services.SchedulerConfig,
	logger *slog.Logger,
) *ScheduleTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleTaskHandler{
		bookings:  bookings,
		prefs:     prefs,
		finder:    finder,
		engine:    engine,
		uow:       uow,
		publisher: publisher,
		lock:      lock,
		config:    config,
		logger:    logger,
	}
}

// Handle executes the ScheduleTaskCommand. Placement runs in three steps:
// direct search within the look-ahead window, then forced displacement for
// urgent or force-today requests, then a fully-booked failure.
func (h *ScheduleTaskHandler) Handle(ctx context.Context, cmd ScheduleTaskCommand) (*SchedulingResult, error) {
	release, err := h.lock.Acquire(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	return h.schedule(ctx, cmd)
}

// schedule runs the placement state machine. Callers must already hold
// the owner's scheduling lock.
func (h *ScheduleTaskHandler) schedule(ctx context.Context, cmd ScheduleTaskCommand) (*SchedulingResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	duration := time.Duration(cmd.DurationMinutes) * time.Minute

	search := services.SlotSearch{
		Duration: duration,
		Rank:     cmd.Rank,
		Hint:     services.ParseWindowHint(cmd.PreferredWhen),
		Now:      now,
	}
	if cmd.ForceToday {
		search.Hint = services.WindowToday
		search.MaxDaysAhead = 1
	}

	slot, err := h.finder.BestSlot(ctx, cmd.OwnerID, search)
	if err != nil {
		return nil, err
	}

	if slot != nil {
		booking, err := h.createBooking(ctx, cmd, slot.Start, slot.End)
		if err != nil {
			return nil, err
		}
		return &SchedulingResult{
			Success: true,
			Booking: booking,
			Message: fmt.Sprintf("Scheduled %q for %s.", booking.Title(), formatSlot(booking.Start(), booking.End())),
		}, nil
	}

	if !cmd.ForceToday && cmd.Rank < domain.HighPriorityThreshold {
		return &SchedulingResult{
			Success: false,
			Message: "Your calendar is fully booked in the next few days. Try a shorter duration or free up some time.",
		}, nil
	}

	pref, err := h.prefs.GetOrCreate(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if !pref.AllowAutoReschedule() {
		return &SchedulingResult{
			Success: false,
			Message: "No free slot found, and automatic rescheduling of existing bookings is disabled in your preferences.",
		}, nil
	}

	target := forcedAnchor(search.Hint, now)
	proposedStart, proposedEnd, err := h.proposeSlot(ctx, cmd.OwnerID, duration, pref, target, now)
	if err != nil {
		return nil, err
	}

	h.logger.Info("forcing placement with displacement",
		slog.String("owner_id", cmd.OwnerID.String()),
		slog.Time("proposed_start", proposedStart),
		slog.Int("rank", cmd.Rank))

	displacements, err := h.engine.DisplaceForNewBooking(ctx, cmd.OwnerID, proposedStart, proposedEnd, cmd.Rank)
	if err != nil {
		return nil, err
	}

	blocked, err := h.protectedConflict(ctx, cmd.OwnerID, proposedStart, proposedEnd)
	if err != nil {
		return nil, err
	}
	if blocked != nil {
		return &SchedulingResult{
			Success:       false,
			Displacements: displacements,
			Message: fmt.Sprintf("Couldn't make room: %q is protected and cannot be moved.",
				blocked.Title()),
		}, nil
	}

	booking, err := h.createBooking(ctx, cmd, proposedStart, proposedEnd)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Scheduled %q for %s.", booking.Title(), formatSlot(booking.Start(), booking.End()))
	if len(displacements) > 0 {
		message += fmt.Sprintf(" Moved %d lower-priority booking(s) to make room.", len(displacements))
	}

	return &SchedulingResult{
		Success:       true,
		Booking:       booking,
		Displacements: displacements,
		Message:       message,
	}, nil
}

// createBooking persists the booking in its own transaction and publishes
// its events after commit.
func (h *ScheduleTaskHandler) createBooking(ctx context.Context, cmd ScheduleTaskCommand, start, end time.Time) (*domain.Booking, error) {
	var booking *domain.Booking

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		b, err := domain.NewBooking(cmd.OwnerID, cmd.Title, cmd.Description, start, end, cmd.Rank, cmd.Tag)
		if err != nil {
			return err
		}
		if err := h.bookings.Create(txCtx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventbus.PublishEvents(ctx, h.publisher, h.logger, booking.DomainEvents()...)
	booking.ClearDomainEvents()

	return booking, nil
}

// forcedAnchor picks the day a forced placement clears room on. Hints
// that name a day move the anchor off now's day; this_week and empty
// hints stay on it.
func forcedAnchor(hint services.WindowHint, now time.Time) time.Time {
	switch hint {
	case services.WindowTomorrow:
		return now.AddDate(0, 0, 1)
	case services.WindowWeekend:
		saturday, _ := services.NextWeekend(now)
		return saturday
	default:
		return now
	}
}

// proposeSlot picks where a forced booking should land on the target day:
// the first free gap, else right after the last booking, else the start of
// the work window. target picks the day; now keeps the slot from landing
// in the past when the target is the current day.
func (h *ScheduleTaskHandler) proposeSlot(
	ctx context.Context,
	ownerID uuid.UUID,
	duration time.Duration,
	pref *domain.Preference,
	target time.Time,
	now time.Time,
) (time.Time, time.Time, error) {
	dayStart, dayEnd := pref.DayWindow(target)

	existing, err := h.bookings.ListByOwnerAndRange(ctx, ownerID, dayStart, dayEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	from := dayStart
	if now.After(from) {
		from = now
	}
	gap, err := h.finder.FirstSlot(ctx, ownerID, duration, from, 1, nil)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if gap != nil {
		return gap.Start, gap.End, nil
	}

	start := dayStart
	for _, b := range existing {
		if b.End().After(start) {
			start = b.End()
		}
	}
	if now.After(start) {
		start = now
	}
	if start.Add(duration).After(dayEnd) {
		// Nothing fits after the last booking; claim the start of the day
		// and let displacement clear it.
		start = dayStart
	}

	return start, start.Add(duration), nil
}

// protectedConflict returns a protected booking still overlapping the
// interval after displacement ran, or nil. Protected bookings are never
// moved, so the forced placement must give up instead of double-booking.
func (h *ScheduleTaskHandler) protectedConflict(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*domain.Booking, error) {
	remaining, err := h.bookings.ListOverlapping(ctx, ownerID, start, end, nil)
	if err != nil {
		return nil, err
	}
	for _, b := range remaining {
		if b.IsProtected() {
			return b, nil
		}
	}
	return nil, nil
}

func formatSlot(start, end time.Time) string {
	return fmt.Sprintf("%s–%s", start.Format("Mon Jan 2 15:04"), end.Format("15:04"))
}
