package cli

import (
	"log/slog"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/temposched/tempo/internal/scheduling/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Command handlers
	ScheduleTaskHandler      *commands.ScheduleTaskHandler
	RescheduleTaskHandler    *commands.RescheduleTaskHandler
	CancelBookingHandler     *commands.CancelBookingHandler
	UpdatePreferencesHandler *commands.UpdatePreferencesHandler

	// Query handlers
	FindBestSlotHandler   *queries.FindBestSlotHandler
	GetAgendaHandler      *queries.GetAgendaHandler
	GetPreferencesHandler *queries.GetPreferencesHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// SetLogger sets the logger used by CLI commands.
func SetLogger(l *slog.Logger) {
	logger = l
}
