package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mindtrack/api/cmd/habitctl/commands"
)

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "habitctl",
		Short: "Operations tool for the MindTrack API",
		Long:  "CLI tool for seeding, inspecting and pinging the habit store",
	}

	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
