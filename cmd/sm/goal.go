package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Goal management commands",
	}

	cmd.AddCommand(newGoalCreateCmd())
	cmd.AddCommand(newGoalListCmd())
	cmd.AddCommand(newGoalShowCmd())
	cmd.AddCommand(newGoalUpdateCmd())
	cmd.AddCommand(newGoalDeleteCmd())
	cmd.AddCommand(newGoalCheckinCmd())
	return cmd
}

func newGoalCreateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		status      string
		progress    int
		timeline    string
		owner       string
		assignees   []string
		category    string
		parentID    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new goal",
		Long:  "Creates a new goal with an auto-generated ID and persists the updated snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalCreate(cmd, configPath, goal.CreateOpts{
				Title:       title,
				Description: description,
				Status:      models.Status(status),
				Progress:    progress,
				Timeline:    timeline,
				Owner:       owner,
				Assignees:   assignees,
				Category:    category,
				ParentID:    parentID,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&title, "title", "", "goal title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&status, "status", "on-track", "initial status")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress percentage (0-100)")
	cmd.Flags().StringVar(&timeline, "timeline", "", "target timeline (e.g. \"Q3 2026\")")
	cmd.Flags().StringVar(&owner, "owner", "", "goal owner")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "assignee (repeatable)")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent goal ID")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runGoalCreate(cmd *cobra.Command, configPath string, opts goal.CreateOpts) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	g, err := store.Create(opts)
	if err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created goal %s\n", g.ID)
	if g.ParentID != "" {
		fmt.Fprintf(out, "Parent: %s\n", g.ParentID)
	}
	return nil
}

func newGoalListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		owner      string
		category   string
		timeline   string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Long:  "Lists goals with optional filters. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalList(cmd, configPath, goal.Filter{
				Status:   status,
				Owner:    owner,
				Category: category,
				Timeline: timeline,
				Search:   search,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&owner, "owner", "", "filter by owner")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&timeline, "timeline", "", "filter by timeline")
	cmd.Flags().StringVar(&search, "search", "", "search title and description")
	return cmd
}

func runGoalList(cmd *cobra.Command, configPath string, f goal.Filter) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	goals := store.Filtered(f)

	out := cmd.OutOrStdout()
	if len(goals) == 0 {
		fmt.Fprintln(out, "No goals found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROGRESS\tOWNER\tTIMELINE")
	for _, g := range goals {
		owner := g.Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\t%s\n",
			g.ID, truncate(g.Title, 40), g.Status, g.Progress, owner, g.Timeline)
	}
	w.Flush()
	return nil
}

func newGoalShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show goal details",
		Long:  "Displays full details of a goal including sub-goals, dependencies, and readiness.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	return cmd
}

func runGoalShow(cmd *cobra.Command, configPath, id string) error {
	_, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	g, err := store.Get(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", g.ID)
	fmt.Fprintf(out, "Title:       %s\n", g.Title)
	fmt.Fprintf(out, "Status:      %s\n", g.Status)
	fmt.Fprintf(out, "Progress:    %d%%\n", g.Progress)
	if g.Timeline != "" {
		fmt.Fprintf(out, "Timeline:    %s\n", g.Timeline)
	}
	if g.Owner != "" {
		fmt.Fprintf(out, "Owner:       %s\n", g.Owner)
	}
	if len(g.Assignees) > 0 {
		fmt.Fprintf(out, "Assignees:   %s\n", strings.Join(g.Assignees, ", "))
	}
	if g.Category != "" {
		fmt.Fprintf(out, "Category:    %s\n", g.Category)
	}
	if g.ParentID != "" {
		fmt.Fprintf(out, "Parent:      %s\n", g.ParentID)
	}
	if g.Position != nil {
		fmt.Fprintf(out, "Position:    (%.0f, %.0f)\n", g.Position.X, g.Position.Y)
	}
	fmt.Fprintf(out, "Created:     %s\n", g.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:     %s\n", g.UpdatedAt.Format("2006-01-02 15:04:05"))
	if g.LastCheckIn != nil {
		fmt.Fprintf(out, "Check-in:    %s\n", g.LastCheckIn.Format("2006-01-02 15:04:05"))
	}

	if g.Description != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", g.Description)
	}

	if len(g.SubGoals) > 0 {
		fmt.Fprintln(out, "\nSub-goals:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, sub := range g.SubGoals {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d%%\n", sub.ID, truncate(sub.Title, 40), sub.Status, sub.Progress)
		}
		w.Flush()
	}

	deps, err := store.Dependencies(id)
	if err != nil {
		return err
	}
	if len(deps.DependsOn) > 0 {
		fmt.Fprintln(out, "\nDepends on:")
		for _, d := range deps.DependsOn {
			fmt.Fprintf(out, "  %s  %s (%s)\n", d.ID, truncate(d.Title, 40), d.Status)
		}
	}
	if len(deps.Dependents) > 0 {
		fmt.Fprintln(out, "\nDependents:")
		for _, d := range deps.Dependents {
			fmt.Fprintf(out, "  %s  %s (%s)\n", d.ID, truncate(d.Title, 40), d.Status)
		}
	}

	ready, err := store.CanStart(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReady to start: %v\n", ready)
	return nil
}

func newGoalUpdateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		status      string
		progress    int
		timeline    string
		owner       string
		assignees   []string
		category    string
		parentID    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a goal",
		Long:  "Updates goal fields. Only flags that are explicitly set are applied.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u goal.Update
			changed := false

			if cmd.Flags().Changed("title") {
				u.Title = &title
				changed = true
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
				changed = true
			}
			if cmd.Flags().Changed("status") {
				st := models.Status(status)
				u.Status = &st
				changed = true
			}
			if cmd.Flags().Changed("progress") {
				u.Progress = &progress
				changed = true
			}
			if cmd.Flags().Changed("timeline") {
				u.Timeline = &timeline
				changed = true
			}
			if cmd.Flags().Changed("owner") {
				u.Owner = &owner
				changed = true
			}
			if cmd.Flags().Changed("assignee") {
				u.Assignees = assignees
				changed = true
			}
			if cmd.Flags().Changed("category") {
				u.Category = &category
				changed = true
			}
			if cmd.Flags().Changed("parent") {
				u.ParentID = &parentID
				changed = true
			}

			if !changed {
				return fmt.Errorf("no fields to update; use --title, --status, --progress, --owner, or another field flag")
			}

			return runGoalUpdate(cmd, configPath, args[0], u)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().IntVar(&progress, "progress", 0, "new progress percentage")
	cmd.Flags().StringVar(&timeline, "timeline", "", "new timeline")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "replace assignees (repeatable)")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&parentID, "parent", "", "new parent goal ID (empty string detaches)")
	return cmd
}

func runGoalUpdate(cmd *cobra.Command, configPath, id string, u goal.Update) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	if _, err := store.UpdateGoal(id, u); err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s\n", id)
	return nil
}

func newGoalDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Long:  "Deletes a goal. Its children become roots and dependency edges to it are removed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalDelete(cmd, configPath, args[0], yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runGoalDelete(cmd *cobra.Command, configPath, id string, yes bool) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	g, err := store.Get(id)
	if err != nil {
		return err
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to delete without confirmation; pass --yes")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Delete goal %s (%q)? [y/N] ", g.ID, g.Title)
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if err := store.Delete(id); err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", id)
	return nil
}

func newGoalCheckinCmd() *cobra.Command {
	var (
		configPath string
		progress   int
		status     string
	)

	cmd := &cobra.Command{
		Use:   "checkin <id>",
		Short: "Record a goal check-in",
		Long:  "Records a check-in, optionally updating progress and status. Resets the staleness clock.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts goal.CheckInOpts
			if cmd.Flags().Changed("progress") {
				opts.Progress = &progress
			}
			if cmd.Flags().Changed("status") {
				st := models.Status(status)
				opts.Status = &st
			}
			return runGoalCheckin(cmd, configPath, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().IntVar(&progress, "progress", 0, "updated progress percentage")
	cmd.Flags().StringVar(&status, "status", "", "updated status")
	return cmd
}

func runGoalCheckin(cmd *cobra.Command, configPath, id string, opts goal.CheckInOpts) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	g, err := store.CheckIn(id, opts)
	if err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Checked in on %s: %s at %d%%\n", g.ID, g.Status, g.Progress)
	return nil
}
