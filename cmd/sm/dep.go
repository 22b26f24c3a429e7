package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/northstar/summit/internal/models"
	"github.com/spf13/cobra"
)

func newDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage goal dependencies",
	}

	cmd.AddCommand(newDepAddCmd())
	cmd.AddCommand(newDepRemoveCmd())
	cmd.AddCommand(newDepShowCmd())
	return cmd
}

func newDepAddCmd() *cobra.Command {
	var (
		configPath string
		dependsOn  string
	)

	cmd := &cobra.Command{
		Use:   "add <goal-id>",
		Short: "Add a dependency",
		Long:  "Records that the goal depends on another. Edges that would close a cycle are rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepAdd(cmd, configPath, args[0], dependsOn)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&dependsOn, "on", "", "goal ID this goal depends on (required)")
	cmd.MarkFlagRequired("on")
	return cmd
}

func runDepAdd(cmd *cobra.Command, configPath, goalID, dependsOn string) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	added, err := store.AddDependency(goalID, dependsOn)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(cmd.OutOrStdout(), "Rejected: %s → %s would create a cycle\n", goalID, dependsOn)
		return nil
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added dependency: %s depends on %s\n", goalID, dependsOn)
	return nil
}

func newDepRemoveCmd() *cobra.Command {
	var (
		configPath string
		dependsOn  string
	)

	cmd := &cobra.Command{
		Use:   "remove <goal-id>",
		Short: "Remove a dependency",
		Long:  "Removes a dependency edge. Removing an edge that does not exist is a no-op.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepRemove(cmd, configPath, args[0], dependsOn)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&dependsOn, "on", "", "dependency goal ID to remove (required)")
	cmd.MarkFlagRequired("on")
	return cmd
}

func runDepRemove(cmd *cobra.Command, configPath, goalID, dependsOn string) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	if err := store.RemoveDependency(goalID, dependsOn); err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency: %s no longer depends on %s\n", goalID, dependsOn)
	return nil
}

func newDepShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <goal-id>",
		Short: "Show goal dependencies",
		Long:  "Shows what the goal depends on and which goals depend on it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	return cmd
}

func runDepShow(cmd *cobra.Command, configPath, goalID string) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	deps, err := store.Dependencies(goalID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(deps.DependsOn) == 0 && len(deps.Dependents) == 0 {
		fmt.Fprintf(out, "No dependencies for %s\n", goalID)
		return nil
	}

	if len(deps.DependsOn) > 0 {
		fmt.Fprintln(out, "Depends on:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTITLE\tSTATUS")
		for _, d := range deps.DependsOn {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", d.ID, truncate(d.Title, 40), d.Status)
		}
		w.Flush()
	}

	if len(deps.Dependents) > 0 {
		fmt.Fprintln(out, "Dependents:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTITLE\tSTATUS")
		for _, d := range deps.Dependents {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", d.ID, truncate(d.Title, 40), d.Status)
		}
		w.Flush()
	}

	return nil
}

func newReadyCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List goals ready to start",
		Long:  "Lists goals that are ready to start: not completed, with every direct dependency completed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReady(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	return cmd
}

func runReady(cmd *cobra.Command, configPath string) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	count := 0
	for _, g := range store.List() {
		if g.Status == models.StatusCompleted {
			continue
		}
		ready, err := store.CanStart(g.ID)
		if err != nil {
			return err
		}
		if !ready {
			continue
		}
		if count == 0 {
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROGRESS")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\n", g.ID, truncate(g.Title, 40), g.Status, g.Progress)
		count++
	}
	if count == 0 {
		fmt.Fprintln(out, "No ready goals.")
		return nil
	}
	w.Flush()
	return nil
}
