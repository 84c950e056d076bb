package queries

import (
	"context"
	"time"

	"github.com/temposched/tempo/internal/scheduling/application/services"
	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BookingDTO is a data transfer object for bookings.
type BookingDTO struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Rank            int
	Tag             string
	Protected       bool
}

// GetAgendaQuery contains the parameters for listing upcoming bookings.
type GetAgendaQuery struct {
	OwnerID uuid.UUID
	Window  string // "today", "tomorrow", "weekend"; anything else means the next 7 days
	Now     time.Time
}

// GetAgendaHandler handles the GetAgendaQuery.
type GetAgendaHandler struct {
	bookings domain.BookingRepository
}

// NewGetAgendaHandler creates a new GetAgendaHandler.
func NewGetAgendaHandler(bookings domain.BookingRepository) *GetAgendaHandler {
	return &GetAgendaHandler{bookings: bookings}
}

// Handle executes the GetAgendaQuery. Bookings come back in start order.
func (h *GetAgendaHandler) Handle(ctx context.Context, query GetAgendaQuery) ([]BookingDTO, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	from, to := agendaWindow(query.Window, now)

	bookings, err := h.bookings.ListByOwnerAndRange(ctx, query.OwnerID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = BookingDTO{
			ID:              b.ID(),
			Title:           b.Title(),
			Description:     b.Description(),
			Start:           b.Start(),
			End:             b.End(),
			DurationMinutes: int(b.Duration() / time.Minute),
			Rank:            b.Rank(),
			Tag:             string(b.Tag()),
			Protected:       b.IsProtected(),
		}
	}
	return dtos, nil
}

func agendaWindow(window string, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch window {
	case "today":
		return dayStart, dayStart.AddDate(0, 0, 1)
	case "tomorrow":
		return dayStart.AddDate(0, 0, 1), dayStart.AddDate(0, 0, 2)
	case "weekend", "this_weekend":
		return services.NextWeekend(now)
	default:
		return dayStart, dayStart.AddDate(0, 0, 7)
	}
}
