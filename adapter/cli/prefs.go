package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	prefsWorkStart  string
	prefsWorkEnd    string
	prefsWorkDays   string
	prefsLunchStart string
	prefsLunchMins  int
	prefsBreakMins  int
	prefsMaxPerDay  int
	prefsMorning    string
	prefsAutoResch  string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change scheduling preferences",
	Long: `Show the current scheduling preferences, or change them with flags.

Examples:
  tempo prefs
  tempo prefs --work-start 08:00 --work-end 16:30
  tempo prefs --auto-reschedule off`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetPreferencesHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		if cmd.Flags().NFlag() == 0 {
			return showPrefs(cmd)
		}
		return updatePrefs(cmd)
	},
}

func showPrefs(cmd *cobra.Command) error {
	app := GetApp()
	pref, err := app.GetPreferencesHandler.Handle(cmd.Context(), app.CurrentUserID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	days := make([]string, len(pref.WorkDays))
	for i, d := range pref.WorkDays {
		days[i] = d.String()[:3]
	}

	fmt.Printf("work hours:        %s-%s\n", pref.WorkStart, pref.WorkEnd)
	fmt.Printf("work days:         %s\n", strings.Join(days, " "))
	fmt.Printf("lunch:             %s (%d min)\n", pref.LunchStart, pref.LunchMinutes)
	fmt.Printf("break between:     %d min\n", pref.BreakMinutes)
	fmt.Printf("max per day:       %d\n", pref.MaxBookingsPerDay)
	fmt.Printf("prefer morning:    %v\n", pref.PreferMorning)
	fmt.Printf("auto-reschedule:   %v\n", pref.AllowAutoReschedule)
	return nil
}

func updatePrefs(cmd *cobra.Command) error {
	app := GetApp()
	update := commands.UpdatePreferencesCommand{OwnerID: app.CurrentUserID}

	if cmd.Flags().Changed("work-start") {
		t, err := domain.ParseTimeOfDay(prefsWorkStart)
		if err != nil {
			return fmt.Errorf("invalid work-start (use HH:MM): %w", err)
		}
		update.WorkStart = &t
	}
	if cmd.Flags().Changed("work-end") {
		t, err := domain.ParseTimeOfDay(prefsWorkEnd)
		if err != nil {
			return fmt.Errorf("invalid work-end (use HH:MM): %w", err)
		}
		update.WorkEnd = &t
	}
	if cmd.Flags().Changed("work-days") {
		days, err := parseWorkDays(prefsWorkDays)
		if err != nil {
			return err
		}
		update.WorkDays = days
	}
	if cmd.Flags().Changed("lunch-start") {
		t, err := domain.ParseTimeOfDay(prefsLunchStart)
		if err != nil {
			return fmt.Errorf("invalid lunch-start (use HH:MM): %w", err)
		}
		update.LunchStart = &t
	}
	if cmd.Flags().Changed("lunch-minutes") {
		update.LunchMinutes = &prefsLunchMins
	}
	if cmd.Flags().Changed("break-minutes") {
		update.BreakMinutes = &prefsBreakMins
	}
	if cmd.Flags().Changed("max-per-day") {
		update.MaxBookingsPerDay = &prefsMaxPerDay
	}
	if cmd.Flags().Changed("prefer-morning") {
		v, err := parseToggle(prefsMorning)
		if err != nil {
			return fmt.Errorf("invalid prefer-morning: %w", err)
		}
		update.PreferMorning = &v
	}
	if cmd.Flags().Changed("auto-reschedule") {
		v, err := parseToggle(prefsAutoResch)
		if err != nil {
			return fmt.Errorf("invalid auto-reschedule: %w", err)
		}
		update.AllowAutoReschedule = &v
	}

	if _, err := app.UpdatePreferencesHandler.Handle(cmd.Context(), update); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	fmt.Println("Preferences updated.")
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWorkDays(input string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(input, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func parseToggle(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", input)
	}
}

func init() {
	prefsCmd.Flags().StringVar(&prefsWorkStart, "work-start", "", "work day start (HH:MM)")
	prefsCmd.Flags().StringVar(&prefsWorkEnd, "work-end", "", "work day end (HH:MM)")
	prefsCmd.Flags().StringVar(&prefsWorkDays, "work-days", "", "comma-separated weekdays, e.g. mon,tue,wed")
	prefsCmd.Flags().StringVar(&prefsLunchStart, "lunch-start", "", "lunch start (HH:MM)")
	prefsCmd.Flags().IntVar(&prefsLunchMins, "lunch-minutes", 0, "lunch length in minutes (0 disables)")
	prefsCmd.Flags().IntVar(&prefsBreakMins, "break-minutes", 0, "minimum buffer between bookings in minutes")
	prefsCmd.Flags().IntVar(&prefsMaxPerDay, "max-per-day", 0, "maximum bookings per day")
	prefsCmd.Flags().StringVar(&prefsMorning, "prefer-morning", "", "prefer morning slots (on/off)")
	prefsCmd.Flags().StringVar(&prefsAutoResch, "auto-reschedule", "", "allow displacing lower-priority bookings (on/off)")
	rootCmd.AddCommand(prefsCmd)
}
