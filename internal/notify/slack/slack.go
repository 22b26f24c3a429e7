// Package slack implements the notify Sender via a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"

	"github.com/northstar/summit/internal/notify"
	slackapi "github.com/slack-go/slack"
)

// postFunc abstracts the webhook call, enabling test mocks.
type postFunc func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error

// Sender posts status-change announcements to a Slack incoming webhook.
type Sender struct {
	webhookURL string
	channel    string
	post       postFunc
}

// Opts holds parameters for creating a Slack Sender.
type Opts struct {
	WebhookURL string
	Channel    string // optional channel override
	// For testing: inject a mock instead of the real webhook call.
	Post postFunc
}

// New creates a Slack Sender.
func New(opts Opts) (*Sender, error) {
	if opts.WebhookURL == "" {
		return nil, fmt.Errorf("slack: webhook URL is required")
	}
	post := opts.Post
	if post == nil {
		post = slackapi.PostWebhookContext
	}
	return &Sender{webhookURL: opts.WebhookURL, channel: opts.Channel, post: post}, nil
}

// Send posts the announcement.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	payload := &slackapi.WebhookMessage{
		Channel: s.channel,
		Text:    notify.Format(msg),
	}
	if err := s.post(ctx, s.webhookURL, payload); err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	return nil
}
