package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/northstar/summit/internal/checkin"
	"github.com/northstar/summit/internal/config"
	"github.com/northstar/summit/internal/dashboard"
	"github.com/northstar/summit/internal/notify"
	"github.com/northstar/summit/internal/notify/discord"
	"github.com/northstar/summit/internal/notify/slack"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the web dashboard",
		Long:  "Launches the read-only web dashboard with live updates, the staleness sweeper, and any configured chat notifiers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "summit.yaml", "path to Summit config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (defaults to config)")
	return cmd
}

func runDashboard(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Dashboard.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if senders := buildSenders(cfg.Notify, cmd); len(senders) > 0 {
		events, cancelWatch := store.Watch()
		defer cancelWatch()
		dispatcher := notify.NewDispatcher(store, senders...)
		go dispatcher.Run(ctx, events)
	}

	sweeper, err := checkin.New(checkin.Opts{
		Store:    store,
		Window:   time.Duration(cfg.Staleness.WindowDays) * 24 * time.Hour,
		Schedule: cfg.Staleness.Schedule,
	})
	if err != nil {
		return err
	}
	go sweeper.Run(ctx)

	if err := dashboard.Start(ctx, dashboard.StartOpts{
		Store: store,
		Port:  port,
		Out:   cmd.OutOrStdout(),
	}); err != nil {
		return err
	}

	// The sweeper may have flipped goals stale while we were serving.
	return saveStore(gormDB, store)
}

// buildSenders constructs the notifiers enabled by config. A broken notifier
// config is reported but does not stop the dashboard.
func buildSenders(cfg config.NotifyConfig, cmd *cobra.Command) []notify.Sender {
	var senders []notify.Sender
	if cfg.Slack.WebhookURL != "" {
		s, err := slack.New(slack.Opts{WebhookURL: cfg.Slack.WebhookURL, Channel: cfg.Slack.Channel})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "slack notifier disabled: %v\n", err)
		} else {
			senders = append(senders, s)
		}
	}
	if cfg.Discord.WebhookID != "" {
		d, err := discord.New(discord.Opts{WebhookID: cfg.Discord.WebhookID, WebhookToken: cfg.Discord.WebhookToken})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "discord notifier disabled: %v\n", err)
		} else {
			senders = append(senders, d)
		}
	}
	return senders
}
