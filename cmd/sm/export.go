package main

import (
	"fmt"
	"os"

	"github.com/northstar/summit/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export goals to external trackers",
	}

	cmd.AddCommand(newExportGithubCmd())
	return cmd
}

func newExportGithubCmd() *cobra.Command {
	var (
		configPath string
		goalID     string
	)

	cmd := &cobra.Command{
		Use:   "github",
		Short: "Export goals as GitHub issues",
		Long:  "Creates one GitHub issue per goal, with sub-goals as a task list. The token is read from the environment variable named in config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportGithub(cmd, configPath, goalID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().StringVar(&goalID, "goal", "", "export a single goal instead of all")
	return cmd
}

func runExportGithub(cmd *cobra.Command, configPath, goalID string) error {
	cfg, _, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	token := os.Getenv(cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("github token not set; export %s or configure github.token_env", cfg.GitHub.TokenEnv)
	}

	exporter, err := export.NewGitHub(export.GitHubOpts{
		Owner: cfg.GitHub.Owner,
		Repo:  cfg.GitHub.Repo,
		Token: token,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if goalID != "" {
		g, err := store.Get(goalID)
		if err != nil {
			return err
		}
		url, err := exporter.ExportGoal(ctx, g)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %s: %s\n", goalID, url)
		return nil
	}

	urls, err := exporter.ExportAll(ctx, store.List())
	if err != nil {
		return err
	}
	for _, url := range urls {
		fmt.Fprintln(out, url)
	}
	fmt.Fprintf(out, "Exported %d goal(s)\n", len(urls))
	return nil
}
