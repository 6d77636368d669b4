package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the configured storage backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			start := time.Now()
			if err := st.Ping(pingCtx); err != nil {
				return fmt.Errorf("store unreachable: %w", err)
			}

			fmt.Printf("Store is reachable (%s)\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	return cmd
}
