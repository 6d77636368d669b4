package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the default habits for an owner",
		Long:  "Ensure the non-deletable starter habits exist for an owner. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.EnsureDefaults(ctx, owner); err != nil {
				return fmt.Errorf("failed to seed defaults: %w", err)
			}

			habits, err := st.ListHabits(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to list habits: %w", err)
			}

			fmt.Printf("Habits for %s:\n", owner)
			for _, h := range habits {
				marker := "deletable"
				if !h.Deletable {
					marker = "default"
				}
				fmt.Printf("  - %s (%s)\n", h.Name, marker)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner identifier to seed")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
