// Package discord implements the notify Sender via a Discord webhook.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/northstar/summit/internal/notify"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender posts status-change announcements to a Discord webhook.
type Sender struct {
	sess      session
	webhookID string
	token     string
}

// Opts holds parameters for creating a Discord Sender.
type Opts struct {
	WebhookID    string
	WebhookToken string
	// For testing: inject a mock session instead of a real one.
	Session session
}

// New creates a Discord Sender. Webhook execution needs no bot token, so the
// underlying session is unauthenticated.
func New(opts Opts) (*Sender, error) {
	if opts.WebhookID == "" || opts.WebhookToken == "" {
		return nil, fmt.Errorf("discord: webhook id and token are required")
	}
	sess := opts.Session
	if sess == nil {
		s, err := discordgo.New("")
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		sess = s
	}
	return &Sender{sess: sess, webhookID: opts.WebhookID, token: opts.WebhookToken}, nil
}

// Send posts the announcement.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	params := &discordgo.WebhookParams{Content: notify.Format(msg)}
	if _, err := s.sess.WebhookExecute(s.webhookID, s.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: execute webhook: %w", err)
	}
	return nil
}
