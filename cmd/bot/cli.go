package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/config"
	"worktime-bot/internal/workday"
)

// openApp собирает зависимости для разовых команд; токен бота не нужен
func openApp() (*app, error) {
	return newApp(config.GetBotConfig())
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print holidays of a year with current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if year == 0 {
				year = a.clock().Year()
			}

			settings, err := a.services.Settings.Get()
			if err != nil {
				return err
			}

			list, err := calendar.HolidaysInRange(fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year), settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, h := range list {
				fmt.Fprintf(out, "%s\t%s\n", h.Date, h.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	return cmd
}

func eligibleCmd() *cobra.Command {
	var from, to string
	var weekends bool

	cmd := &cobra.Command{
		Use:   "eligible",
		Short: "Print working dates in an inclusive range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			settings, err := a.services.Settings.Get()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("weekends") {
				settings.WorkOnWeekends = weekends
			}

			dates, err := workday.EligibleDates(from, to, settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range dates {
				fmt.Fprintln(out, d)
			}
			fmt.Fprintf(out, "total: %d\n", len(dates))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "End date YYYY-MM-DD")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "Treat weekends as working days")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func summaryCmd() *cobra.Command {
	var chatID int64
	var month string
	var fresh bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the monthly summary of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			at := a.clock()
			if month != "" {
				if at, err = time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("invalid --month %q, expected YYYY-MM", month)
				}
			}

			user, err := a.services.Users.GetUser(chatID)
			if err != nil {
				return err
			}

			summaries := a.services.Summaries
			if fresh {
				report, err := summaries.Month(user.ID, at.Year(), at.Month())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summaries.FormatReport(report))
				return nil
			}

			cached, err := summaries.Cached(user.ID, at.Year(), at.Month())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaries.FormatCached(cached))
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "user", 0, "Telegram chat ID of the user")
	cmd.Flags().StringVar(&month, "month", "", "Month YYYY-MM (default: current)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Recompute instead of reading the stored summary")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
