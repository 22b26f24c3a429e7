package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.DB.Path != "summit.db" {
		t.Errorf("DB.Path = %q, want summit.db", cfg.DB.Path)
	}
	if cfg.Canvas.MaxX != 1200 || cfg.Canvas.MaxY != 500 {
		t.Errorf("Canvas = %+v, want 1200x500", cfg.Canvas)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("Dashboard.Port = %d, want 8080", cfg.Dashboard.Port)
	}
	if cfg.Staleness.WindowDays != 14 {
		t.Errorf("Staleness.WindowDays = %d, want 14", cfg.Staleness.WindowDays)
	}
	if cfg.Staleness.Schedule != "0 9 * * *" {
		t.Errorf("Staleness.Schedule = %q, want default", cfg.Staleness.Schedule)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("GitHub.TokenEnv = %q, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}
}

func TestParse_Full(t *testing.T) {
	yaml := `
db:
  driver: mysql
  host: db.internal
  port: 3307
  database: okr
canvas:
  max_x: 1600
  max_y: 900
dashboard:
  port: 9090
staleness:
  window_days: 7
  schedule: "30 8 * * 1"
notify:
  slack:
    webhook_url: https://hooks.slack.com/services/T0/B0/xyz
    channel: "#goals"
  discord:
    webhook_id: "123"
    webhook_token: abc
github:
  owner: northstar
  repo: summit
  token_env: SUMMIT_GH_TOKEN
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DB.Driver != "mysql" || cfg.DB.Host != "db.internal" || cfg.DB.Port != 3307 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.Canvas.MaxX != 1600 {
		t.Errorf("Canvas.MaxX = %v, want 1600", cfg.Canvas.MaxX)
	}
	if cfg.Notify.Slack.Channel != "#goals" {
		t.Errorf("Slack.Channel = %q", cfg.Notify.Slack.Channel)
	}
	if cfg.GitHub.TokenEnv != "SUMMIT_GH_TOKEN" {
		t.Errorf("GitHub.TokenEnv = %q", cfg.GitHub.TokenEnv)
	}
}

func TestParse_InvalidDriver(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("expected validation error for unknown driver")
	}
	if !strings.Contains(err.Error(), "db.driver") {
		t.Errorf("error %q should mention db.driver", err)
	}
}

func TestParse_InvalidPort(t *testing.T) {
	if _, err := Parse([]byte("dashboard:\n  port: 70000\n")); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("db: [not a map")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite defaults", cfg.DB.Driver)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summit.yaml")
	if err := os.WriteFile(path, []byte("dashboard:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.Port != 9999 {
		t.Errorf("Dashboard.Port = %d, want 9999", cfg.Dashboard.Port)
	}
}
