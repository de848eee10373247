// Package main provides the casemap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jengzang/casemap-backend-go/cmd/casemap/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "casemap",
		Short: "Case map dataset tool",
		Long: `casemap loads the Confirmed, Recovered and Deaths time series and
inspects them from the command line.

Commands:
  top       Rank locations by a metric at a date
  timeline  List the dates of the loaded timeline
  token     Mint an admin token for the reload endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddPersistentFlags(rootCmd)
	rootCmd.AddCommand(commands.NewTopCommand())
	rootCmd.AddCommand(commands.NewTimelineCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
