package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sm",
		Short: "Summit — goal hierarchy and dependency tracking",
		Long:  "Summit tracks strategic goals, their sub-goals, and the dependency graph between them.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGoalCmd())
	cmd.AddCommand(newSubCmd())
	cmd.AddCommand(newDepCmd())
	cmd.AddCommand(newReadyCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newMapCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sm %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
