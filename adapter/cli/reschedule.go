package cli

import (
	"fmt"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var rescheduleWhen string

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule [title]",
	Short: "Move an existing booking to a new time",
	Long: `Move a booking matched by title to a new window. If the new
placement fails, the original booking is restored unchanged.

Examples:
  tempo reschedule "quarterly report" -w tomorrow
  tempo reschedule "grocery" -w weekend`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RescheduleTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := app.RescheduleTaskHandler.Handle(cmd.Context(), commands.RescheduleTaskCommand{
			OwnerID:     app.CurrentUserID,
			MatchHint:   args[0],
			NewTimeHint: rescheduleWhen,
		})
		if err != nil {
			return fmt.Errorf("failed to reschedule: %w", err)
		}

		fmt.Println(result.Message)
		for _, c := range result.Candidates {
			fmt.Printf("  %s  %s\n", c.Start().Format("Mon Jan 2 15:04"), c.Title())
		}

		return nil
	},
}

func init() {
	rescheduleCmd.Flags().StringVarP(&rescheduleWhen, "when", "w", "", "new window (today, tomorrow, this_week, weekend)")
	rootCmd.AddCommand(rescheduleCmd)
}
