package cli

import (
	"fmt"

	"github.com/temposched/tempo/internal/scheduling/application/queries"
	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	slotDuration string
	slotPriority string
	slotWhen     string
)

var slotCmd = &cobra.Command{
	Use:   "slot",
	Short: "Preview the best free slot without booking it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.FindBestSlotHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		rank, _ := domain.PriorityFromTag(slotPriority)

		slot, err := app.FindBestSlotHandler.Handle(cmd.Context(), queries.FindBestSlotQuery{
			OwnerID:         app.CurrentUserID,
			DurationMinutes: domain.ParseDuration(slotDuration, 60),
			Rank:            rank,
			WindowHint:      slotWhen,
		})
		if err != nil {
			return fmt.Errorf("failed to find slot: %w", err)
		}

		if slot == nil {
			fmt.Println("No free slot found in the search window.")
			return nil
		}

		fmt.Printf("Best slot: %s-%s\n",
			slot.Start.Format("Mon Jan 2 15:04"),
			slot.End.Format("15:04"),
		)
		return nil
	},
}

func init() {
	slotCmd.Flags().StringVarP(&slotDuration, "duration", "d", "1h", "duration, e.g. 30m, 1h30m")
	slotCmd.Flags().StringVarP(&slotPriority, "priority", "p", "medium", "priority (optional, low, medium, high, urgent)")
	slotCmd.Flags().StringVarP(&slotWhen, "when", "w", "", "preferred window (today, tomorrow, this_week, weekend)")
	rootCmd.AddCommand(slotCmd)
}
