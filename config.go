package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all settings, read from the environment (a .env file is
// loaded first if present).
type Config struct {
	BotToken string `env:"BOT_TOKEN,required"`
	AdminID  int64  `env:"ADMIN_ID,required"`

	// Channels the user must join before content is released. Comma
	// separated usernames, with or without the leading @. Empty disables
	// the gate entirely.
	Channels []string `env:"REQUIRED_CHANNELS" envSeparator:","`

	// fail_closed (default): a membership lookup error counts as not a
	// member. fail_open: the errored channel is skipped.
	MembershipFailPolicy string `env:"MEMBERSHIP_FAIL_POLICY" envDefault:"fail_closed"`

	// Data directory for the JSON file store (ignored when a SQL backend
	// is selected via DATABASE_URL or SQLITE_PATH).
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// DeleteDelay is the visibility window before a sent message is
	// removed again.
	DeleteDelay time.Duration `env:"DELETE_DELAY" envDefault:"15s"`

	// FlushInterval drives the background flush + sweep cycle.
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"5m"`

	// Webhook mode: if WebhookURL is set the bot serves updates over HTTP
	// instead of long polling.
	WebhookURL  string `env:"WEBHOOK_URL"`
	WebhookPort string `env:"WEBHOOK_PORT" envDefault:"8443"`
}

// LoadConfig parses the environment and normalizes the channel list.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	var channels []string
	for _, ch := range cfg.Channels {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		if !strings.HasPrefix(ch, "@") {
			ch = "@" + ch
		}
		channels = append(channels, ch)
	}
	cfg.Channels = channels

	switch cfg.MembershipFailPolicy {
	case FailClosed, FailOpen:
	default:
		return Config{}, fmt.Errorf("invalid MEMBERSHIP_FAIL_POLICY %q", cfg.MembershipFailPolicy)
	}

	return cfg, nil
}
