package commands

import (
	"context"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedApplication "github.com/temposched/tempo/internal/shared/application"
	"github.com/google/uuid"
)

// UpdatePreferencesCommand carries partial preference changes; nil fields
// are left untouched.
type UpdatePreferencesCommand struct {
	OwnerID             uuid.UUID
	WorkStart           *domain.TimeOfDay
	WorkEnd             *domain.TimeOfDay
	WorkDays            []time.Weekday
	LunchStart          *domain.TimeOfDay
	LunchMinutes        *int
	BreakMinutes        *int
	MaxBookingsPerDay   *int
	PreferMorning       *bool
	AllowAutoReschedule *bool
}

// UpdatePreferencesHandler handles the UpdatePreferencesCommand.
type UpdatePreferencesHandler struct {
	prefs domain.PreferenceRepository
	uow   sharedApplication.UnitOfWork
}

// NewUpdatePreferencesHandler creates a new UpdatePreferencesHandler.
func NewUpdatePreferencesHandler(prefs domain.PreferenceRepository, uow sharedApplication.UnitOfWork) *UpdatePreferencesHandler {
	return &UpdatePreferencesHandler{prefs: prefs, uow: uow}
}

// Handle executes the UpdatePreferencesCommand.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) (*domain.Preference, error) {
	var pref *domain.Preference

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.prefs.GetOrCreate(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}

		if cmd.WorkStart != nil || cmd.WorkEnd != nil {
			start, end := p.WorkStart(), p.WorkEnd()
			if cmd.WorkStart != nil {
				start = *cmd.WorkStart
			}
			if cmd.WorkEnd != nil {
				end = *cmd.WorkEnd
			}
			if err := p.SetWorkHours(start, end); err != nil {
				return err
			}
		}

		if cmd.WorkDays != nil {
			p.SetWorkDays(cmd.WorkDays)
		}

		if cmd.LunchStart != nil || cmd.LunchMinutes != nil {
			lunchStart := p.LunchStart()
			lunchMinutes := p.LunchMinutes()
			if cmd.LunchStart != nil {
				lunchStart = *cmd.LunchStart
			}
			if cmd.LunchMinutes != nil {
				lunchMinutes = *cmd.LunchMinutes
			}
			p.SetLunch(lunchStart, lunchMinutes)
		}

		if cmd.BreakMinutes != nil {
			p.SetBreakMinutes(*cmd.BreakMinutes)
		}

		if cmd.MaxBookingsPerDay != nil {
			p.SetMaxBookingsPerDay(*cmd.MaxBookingsPerDay)
		}

		if cmd.PreferMorning != nil {
			p.SetPreferMorning(*cmd.PreferMorning)
		}

		if cmd.AllowAutoReschedule != nil {
			p.SetAllowAutoReschedule(*cmd.AllowAutoReschedule)
		}

		if err := h.prefs.Save(txCtx, p); err != nil {
			return err
		}

		pref = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pref, nil
}
