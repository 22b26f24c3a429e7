package main

import (
	"fmt"

	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/models"
	"github.com/spf13/cobra"
)

func newSubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage sub-goals",
	}

	cmd.AddCommand(newSubAddCmd())
	cmd.AddCommand(newSubUpdateCmd())
	cmd.AddCommand(newSubRemoveCmd())
	return cmd
}

func newSubAddCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		progress    int
		status      string
		timeline    string
		owner       string
		assignees   []string
	)

	cmd := &cobra.Command{
		Use:   "add <goal-id>",
		Short: "Add a sub-goal",
		Long:  "Adds a sub-goal to a goal. The parent's progress becomes the rounded mean of its sub-goals.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubAdd(cmd, configPath, args[0], goal.SubGoalOpts{
				Title:       title,
				Description: description,
				Progress:    progress,
				Status:      models.Status(status),
				Timeline:    timeline,
				Owner:       owner,
				Assignees:   assignees,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&title, "title", "", "sub-goal title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress percentage (0-100)")
	cmd.Flags().StringVar(&status, "status", "on-track", "initial status")
	cmd.Flags().StringVar(&timeline, "timeline", "", "target timeline")
	cmd.Flags().StringVar(&owner, "owner", "", "sub-goal owner")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "assignee (repeatable)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runSubAdd(cmd *cobra.Command, configPath, goalID string, opts goal.SubGoalOpts) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	sub, err := store.AddSubGoal(goalID, opts)
	if err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	g, err := store.Get(goalID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added sub-goal %s to %s\n", sub.ID, goalID)
	fmt.Fprintf(out, "Parent progress: %d%%\n", g.Progress)
	return nil
}

func newSubUpdateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		progress    int
		status      string
		timeline    string
		owner       string
		assignees   []string
	)

	cmd := &cobra.Command{
		Use:   "update <goal-id> <sub-goal-id>",
		Short: "Update a sub-goal",
		Long:  "Updates sub-goal fields and recomputes the parent's progress rollup.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u goal.SubGoalUpdate
			changed := false

			if cmd.Flags().Changed("title") {
				u.Title = &title
				changed = true
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
				changed = true
			}
			if cmd.Flags().Changed("progress") {
				u.Progress = &progress
				changed = true
			}
			if cmd.Flags().Changed("status") {
				st := models.Status(status)
				u.Status = &st
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

			if !changed {
				return fmt.Errorf("no fields to update; use --title, --progress, --status, or another field flag")
			}

			return runSubUpdate(cmd, configPath, args[0], args[1], u)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().IntVar(&progress, "progress", 0, "new progress percentage")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&timeline, "timeline", "", "new timeline")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "replace assignees (repeatable)")
	return cmd
}

func runSubUpdate(cmd *cobra.Command, configPath, goalID, subID string, u goal.SubGoalUpdate) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	if _, err := store.UpdateSubGoal(goalID, subID, u); err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	g, err := store.Get(goalID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated sub-goal %s\n", subID)
	fmt.Fprintf(out, "Parent progress: %d%%\n", g.Progress)
	return nil
}

func newSubRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "remove <goal-id> <sub-goal-id>",
		Short: "Remove a sub-goal",
		Long:  "Removes a sub-goal. The parent's progress is recomputed from the remaining sub-goals.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubRemove(cmd, configPath, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	return cmd
}

func runSubRemove(cmd *cobra.Command, configPath, goalID, subID string) error {
	_, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	if err := store.DeleteSubGoal(goalID, subID); err != nil {
		return err
	}
	if err := saveStore(gormDB, store); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed sub-goal %s from %s\n", subID, goalID)
	return nil
}
