package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newForecastCommand() *cobra.Command {
	var days int
	command := &cobra.Command{
		Use:   "forecast",
		Short: "Show how many cards come due over the next days and the recent mistakes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("days must be a positive number, got %d", days)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			m := newManager(cfg, db)
			ctx := cmd.Context()

			forecast, err := m.Forecast(ctx, days)
			if err != nil {
				return fmt.Errorf("m.Forecast > %w", err)
			}
			fmt.Println("Upcoming reviews:")
			for day, count := range forecast {
				switch day {
				case 0:
					fmt.Printf("  due now: %d cards\n", count)
				case 1:
					fmt.Printf("  in 1 day: %d cards\n", count)
				default:
					fmt.Printf("  in %d days: %d cards\n", day, count)
				}
			}

			mistakes, err := m.RecentMistakeCounts(ctx)
			if err != nil {
				return fmt.Errorf("m.RecentMistakeCounts > %w", err)
			}
			if len(mistakes) == 0 {
				fmt.Println("No recent mistakes.")
				return nil
			}

			daysAgo := make([]int, 0, len(mistakes))
			for day := range mistakes {
				daysAgo = append(daysAgo, day)
			}
			sort.Ints(daysAgo)
			fmt.Println("Recent mistakes:")
			for _, day := range daysAgo {
				switch day {
				case 0:
					fmt.Printf("  today: %d\n", mistakes[day])
				case 1:
					fmt.Printf("  1 day ago: %d\n", mistakes[day])
				default:
					fmt.Printf("  %d days ago: %d\n", day, mistakes[day])
				}
			}
			return nil
		},
	}
	command.Flags().IntVar(&days, "days", 7, "number of days to forecast")
	return command
}
