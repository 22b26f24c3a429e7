package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/northstar/summit/internal/checkin"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		configPath string
		loop       bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Mark goals with stale check-ins",
		Long:  "Flips goals without a recent check-in to no-recent-updates. With --loop, runs on the configured cron schedule until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, configPath, loop)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().BoolVar(&loop, "loop", false, "keep sweeping on the configured schedule")
	return cmd
}

func runSweep(cmd *cobra.Command, configPath string, loop bool) error {
	cfg, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}

	sweeper, err := checkin.New(checkin.Opts{
		Store:    store,
		Window:   time.Duration(cfg.Staleness.WindowDays) * 24 * time.Hour,
		Schedule: cfg.Staleness.Schedule,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !loop {
		marked := sweeper.SweepOnce()
		if len(marked) == 0 {
			fmt.Fprintln(out, "No stale goals.")
			return nil
		}
		if err := saveStore(gormDB, store); err != nil {
			return err
		}
		fmt.Fprintf(out, "Marked %d goal(s) stale: %s\n", len(marked), strings.Join(marked, ", "))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, stopping...\n", sig)
		cancel()
	}()

	fmt.Fprintf(out, "Sweeping on schedule %q (window %d days)\n", cfg.Staleness.Schedule, cfg.Staleness.WindowDays)
	if err := sweeper.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return saveStore(gormDB, store)
}
