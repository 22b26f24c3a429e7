package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/models"
	"github.com/spf13/cobra"
)

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Manage strategy-map positions",
	}

	cmd.AddCommand(newMapSetCmd())
	cmd.AddCommand(newMapListCmd())
	return cmd
}

func newMapSetCmd() *cobra.Command {
	var (
		configPath string
		x          float64
		y          float64
	)

	cmd := &cobra.Command{
		Use:   "set <goal-id>",
		Short: "Place a goal on the strategy map",
		Long:  "Sets a goal's map position. Coordinates are clamped to the configured canvas bounds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapSet(cmd, configPath, args[0], models.Position{X: x, Y: y})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().Float64Var(&x, "x", 0, "horizontal position")
	cmd.Flags().Float64Var(&y, "y", 0, "vertical position")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")
	return cmd
}

func runMapSet(cmd *cobra.Command, configPath, id string, pos models.Position) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	g, err := store.SetPosition(id, pos)
	if err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Placed %s at (%.0f, %.0f)\n", g.ID, g.Position.X, g.Position.Y)
	return nil
}

func newMapListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List positioned goals",
		Long:  "Lists goals that have a strategy-map position, with optional status filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapList(cmd, configPath, goal.Filter{Status: status})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func runMapList(cmd *cobra.Command, configPath string, f goal.Filter) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	goals := store.MapGoals(f)

	out := cmd.OutOrStdout()
	if len(goals) == 0 {
		fmt.Fprintln(out, "No positioned goals.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tX\tY")
	for _, g := range goals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.0f\n",
			g.ID, truncate(g.Title, 40), g.Status, g.Position.X, g.Position.Y)
	}
	w.Flush()
	return nil
}
