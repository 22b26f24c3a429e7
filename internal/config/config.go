// Package config provides YAML-based configuration loading for Summit.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Summit configuration, loaded from summit.yaml.
type Config struct {
	DB        DBConfig        `yaml:"db"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Staleness StalenessConfig `yaml:"staleness"`
	Notify    NotifyConfig    `yaml:"notify"`
	GitHub    GitHubConfig    `yaml:"github"`
}

// DBConfig selects and configures the snapshot backend.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite or mysql
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// CanvasConfig bounds the strategy-map coordinate space.
type CanvasConfig struct {
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// DashboardConfig holds settings for the dashboard HTTP server.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// StalenessConfig controls the check-in staleness sweeper.
type StalenessConfig struct {
	WindowDays int    `yaml:"window_days"`
	Schedule   string `yaml:"schedule"` // 5-field cron expression
}

// NotifyConfig holds chat notification settings. An adapter is enabled when
// its webhook fields are set.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig configures the Slack incoming-webhook notifier.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

// DiscordConfig configures the Discord webhook notifier.
type DiscordConfig struct {
	WebhookID    string `yaml:"webhook_id"`
	WebhookToken string `yaml:"webhook_token"`
}

// GitHubConfig configures goal export to GitHub issues. The token is read
// from the environment variable named by TokenEnv, never from the file.
type GitHubConfig struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	TokenEnv string `yaml:"token_env"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Path == "" {
		c.DB.Path = "summit.db"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.Database == "" {
		c.DB.Database = "summit"
	}
	if c.Canvas.MaxX == 0 {
		c.Canvas.MaxX = 1200
	}
	if c.Canvas.MaxY == 0 {
		c.Canvas.MaxY = 500
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Staleness.WindowDays == 0 {
		c.Staleness.WindowDays = 14
	}
	if c.Staleness.Schedule == "" {
		c.Staleness.Schedule = "0 9 * * *"
	}
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = "GITHUB_TOKEN"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q must be sqlite or mysql", c.DB.Driver))
	}
	if c.Canvas.MaxX < 0 || c.Canvas.MaxY < 0 {
		errs = append(errs, "canvas bounds must be non-negative")
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d out of range", c.Dashboard.Port))
	}
	if c.Staleness.WindowDays < 0 {
		errs = append(errs, "staleness.window_days must be non-negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
