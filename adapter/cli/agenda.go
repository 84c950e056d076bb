package cli

import (
	"fmt"

	"github.com/temposched/tempo/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var agendaWindow string

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show upcoming bookings",
	Long: `List bookings for a window. Without a window flag the next seven
days are shown.

Examples:
  tempo agenda
  tempo agenda -w today
  tempo agenda -w weekend`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetAgendaHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookings, err := app.GetAgendaHandler.Handle(cmd.Context(), queries.GetAgendaQuery{
			OwnerID: app.CurrentUserID,
			Window:  agendaWindow,
		})
		if err != nil {
			return fmt.Errorf("failed to load agenda: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("Nothing scheduled.")
			return nil
		}

		for _, b := range bookings {
			marker := " "
			if b.Protected {
				marker = "*"
			}
			fmt.Printf("%s %s-%s  [%s] %s\n",
				marker,
				b.Start.Format("Mon Jan 2 15:04"),
				b.End.Format("15:04"),
				b.Tag,
				b.Title,
			)
		}

		return nil
	},
}

func init() {
	agendaCmd.Flags().StringVarP(&agendaWindow, "window", "w", "", "window (today, tomorrow, weekend); default is the next 7 days")
	rootCmd.AddCommand(agendaCmd)
}
