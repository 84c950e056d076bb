package queries

import (
	"context"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
)

// PreferenceDTO is a data transfer object for scheduling preferences.
type PreferenceDTO struct {
	OwnerID             uuid.UUID
	WorkStart           string
	WorkEnd             string
	WorkDays            []time.Weekday
	LunchStart          string
	LunchMinutes        int
	BreakMinutes        int
	MaxBookingsPerDay   int
	PreferMorning       bool
	AllowAutoReschedule bool
}

// GetPreferencesHandler returns a user's preferences, creating defaults on
// first access.
type GetPreferencesHandler struct {
	prefs domain.PreferenceRepository
}

// NewGetPreferencesHandler creates a new GetPreferencesHandler.
func NewGetPreferencesHandler(prefs domain.PreferenceRepository) *GetPreferencesHandler {
	return &GetPreferencesHandler{prefs: prefs}
}

// Handle executes the query.
func (h *GetPreferencesHandler) Handle(ctx context.Context, ownerID uuid.UUID) (*PreferenceDTO, error) {
	p, err := h.prefs.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &PreferenceDTO{
		OwnerID:             p.OwnerID(),
		WorkStart:           p.WorkStart().String(),
		WorkEnd:             p.WorkEnd().String(),
		WorkDays:            p.WorkDays(),
		LunchStart:          p.LunchStart().String(),
		LunchMinutes:        p.LunchMinutes(),
		BreakMinutes:        p.BreakMinutes(),
		MaxBookingsPerDay:   p.MaxBookingsPerDay(),
		PreferMorning:       p.PreferMorning(),
		AllowAutoReschedule: p.AllowAutoReschedule(),
	}, nil
}
