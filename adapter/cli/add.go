package cli

import (
	"fmt"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	addDuration    string
	addPriority    string
	addWhen        string
	addDescription string
	addForceToday  bool
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Schedule a task into the next free slot",
	Long: `Schedule a task. Tempo finds the best free slot within the coming
week, honoring your work hours, lunch break, and preferences.

Unparseable durations and priorities fall back to sensible defaults
rather than failing.

Examples:
  tempo add "Write quarterly report" -d 2h -p high
  tempo add "Grocery run" -d 45m -w weekend
  tempo add "Call the bank" -d 30m -p urgent --today`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ScheduleTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		rank, tag := domain.PriorityFromTag(addPriority)
		minutes := domain.ParseDuration(addDuration, 60)

		result, err := app.ScheduleTaskHandler.Handle(cmd.Context(), commands.ScheduleTaskCommand{
			OwnerID:         app.CurrentUserID,
			Title:           args[0],
			Description:     addDescription,
			DurationMinutes: minutes,
			Rank:            rank,
			Tag:             tag,
			PreferredWhen:   addWhen,
			ForceToday:      addForceToday,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule task: %w", err)
		}

		fmt.Println(result.Message)
		for _, d := range result.Displacements {
			fmt.Printf("  moved: %s  %s -> %s\n",
				d.Title,
				d.OldStart.Format("Mon Jan 2 15:04"),
				d.NewStart.Format("Mon Jan 2 15:04"),
			)
		}

		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDuration, "duration", "d", "1h", "duration, e.g. 30m, 1h30m")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "priority (optional, low, medium, high, urgent)")
	addCmd.Flags().StringVarP(&addWhen, "when", "w", "", "preferred window (today, tomorrow, this_week, weekend)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "task description")
	addCmd.Flags().BoolVar(&addForceToday, "today", false, "force the task onto today's calendar, displacing lower-priority bookings if needed")
	rootCmd.AddCommand(addCmd)
}
