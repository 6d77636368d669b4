package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindtrack/api/internal/motivation"
	"github.com/mindtrack/api/internal/stats"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print progress statistics for an owner",
		Long:  "Compute and print the owner's streak and habit statistics from their day records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			records, err := st.DayRecords(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to fetch day records: %w", err)
			}

			engine := stats.NewEngine(nil)
			result := engine.Compute(records, time.Now())
			emoji := motivation.Emoji(stats.TierForStreak(result.CurrentStreak))

			fmt.Printf("Stats for %s:\n", owner)
			fmt.Printf("  Total days logged:      %d\n", result.TotalDays)
			fmt.Printf("  Total habits completed: %d\n", result.TotalHabitsCompleted)
			fmt.Printf("  Current streak:         %d %s\n", result.CurrentStreak, emoji)
			fmt.Printf("  Best habit:             %s\n", result.BestHabit)

			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner identifier to inspect")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
