package cli

import (
	"fmt"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [booking-id]",
	Short: "Remove a booking from the calendar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CancelBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid booking id: %w", err)
		}

		err = app.CancelBookingHandler.Handle(cmd.Context(), commands.CancelBookingCommand{
			OwnerID:   app.CurrentUserID,
			BookingID: id,
		})
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		fmt.Println("Booking cancelled.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}
