package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/northstar/summit/internal/models"
	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tree [goal-id]",
		Short: "Print the goal hierarchy",
		Long:  "Prints goals as an indented tree. With an ID, only that goal's subtree is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runTree(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	return cmd
}

func runTree(cmd *cobra.Command, configPath, id string) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if id != "" {
		subtree, err := store.Hierarchy(id)
		if err != nil {
			return err
		}
		printTree(out, subtree)
		return nil
	}

	roots := store.Roots()
	if len(roots) == 0 {
		fmt.Fprintln(out, "No goals.")
		return nil
	}
	for _, root := range roots {
		subtree, err := store.Hierarchy(root.ID)
		if err != nil {
			return err
		}
		printTree(out, subtree)
	}
	return nil
}

// printTree renders a pre-order goal list as an indented tree. Pre-order
// guarantees every parent is printed before its descendants, so depths can be
// derived in a single pass.
func printTree(out io.Writer, goals []*models.Goal) {
	depths := make(map[string]int, len(goals))
	for _, g := range goals {
		depth := 0
		if d, ok := depths[g.ParentID]; ok {
			depth = d + 1
		}
		depths[g.ID] = depth
		fmt.Fprintf(out, "%s%s  %s (%s, %d%%)\n",
			strings.Repeat("  ", depth), g.ID, truncate(g.Title, 50), g.Status, g.Progress)
	}
}
