package queries

import (
	"context"
	"time"

	"github.com/temposched/tempo/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// SlotDTO is a data transfer object for a proposed slot.
type SlotDTO struct {
	Start time.Time
	End   time.Time
}

// FindBestSlotQuery contains the parameters for a slot search.
type FindBestSlotQuery struct {
	OwnerID         uuid.UUID
	DurationMinutes int
	Rank            int
	WindowHint      string // "today", "tomorrow", "this_week", "weekend", or empty
	MaxDaysAhead    int    // 0 means the configured default
	Now             time.Time
}

// FindBestSlotHandler handles the FindBestSlotQuery.
type FindBestSlotHandler struct {
	finder *services.SlotFinder
}

// NewFindBestSlotHandler creates a new FindBestSlotHandler.
func NewFindBestSlotHandler(finder *services.SlotFinder) *FindBestSlotHandler {
	return &FindBestSlotHandler{finder: finder}
}

// Handle executes the FindBestSlotQuery. A nil result means the calendar
// has no room within the search window.
func (h *FindBestSlotHandler) Handle(ctx context.Context, query FindBestSlotQuery) (*SlotDTO, error) {
	slot, err := h.finder.BestSlot(ctx, query.OwnerID, services.SlotSearch{
		Duration:     time.Duration(query.DurationMinutes) * time.Minute,
		Rank:         query.Rank,
		Hint:         services.ParseWindowHint(query.WindowHint),
		MaxDaysAhead: query.MaxDaysAhead,
		Now:          query.Now,
	})
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, nil
	}

	return &SlotDTO{Start: slot.Start, End: slot.End}, nil
}
