package discord

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/northstar/summit/internal/models"
	"github.com/northstar/summit/internal/notify"
)

type mockSession struct {
	webhookID string
	token     string
	params    *discordgo.WebhookParams
	err       error
}

func (m *mockSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.webhookID, m.token, m.params = webhookID, token, data
	return nil, m.err
}

func TestNew_RequiresWebhook(t *testing.T) {
	if _, err := New(Opts{WebhookToken: "tok"}); err == nil {
		t.Error("expected error for missing webhook id")
	}
	if _, err := New(Opts{WebhookID: "123"}); err == nil {
		t.Error("expected error for missing webhook token")
	}
}

func TestSend(t *testing.T) {
	mock := &mockSession{}
	sender, err := New(Opts{WebhookID: "123", WebhookToken: "tok", Session: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	msg := notify.Message{Title: "Launch", Old: models.StatusOnTrack, New: models.StatusOffTrack}
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mock.webhookID != "123" || mock.token != "tok" {
		t.Errorf("webhook = %s/%s", mock.webhookID, mock.token)
	}
	if !strings.Contains(mock.params.Content, "off-track") {
		t.Errorf("content = %q", mock.params.Content)
	}
}

func TestSend_WrapsError(t *testing.T) {
	wantErr := errors.New("webhook gone")
	sender, _ := New(Opts{WebhookID: "123", WebhookToken: "tok", Session: &mockSession{err: wantErr}})
	err := sender.Send(context.Background(), notify.Message{})
	if !errors.Is(err, wantErr) {
		t.Errorf("Send error = %v, want wrapped %v", err, wantErr)
	}
}
