package main

import (
	"os"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("REQUIRED_CHANNELS", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MembershipFailPolicy != FailClosed {
		t.Errorf("default policy = %q, want fail_closed", cfg.MembershipFailPolicy)
	}
	if cfg.DeleteDelay.Seconds() != 15 {
		t.Errorf("default delete delay = %v, want 15s", cfg.DeleteDelay)
	}
	if cfg.FlushInterval.Minutes() != 5 {
		t.Errorf("default flush interval = %v, want 5m", cfg.FlushInterval)
	}
	if len(cfg.Channels) != 0 {
		t.Errorf("channels = %v, want none", cfg.Channels)
	}
}

func TestLoadConfigChannelNormalization(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{"bare usernames", "alpha,beta", []string{"@alpha", "@beta"}},
		{"with at sign", "@alpha", []string{"@alpha"}},
		{"spaces and empties", " alpha , ,@beta ", []string{"@alpha", "@beta"}},
		{"single channel", "alpha", []string{"@alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("REQUIRED_CHANNELS", tt.env)

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatal(err)
			}
			if len(cfg.Channels) != len(tt.want) {
				t.Fatalf("channels = %v, want %v", cfg.Channels, tt.want)
			}
			for i := range tt.want {
				if cfg.Channels[i] != tt.want[i] {
					t.Errorf("channel %d = %q, want %q", i, cfg.Channels[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadConfigInvalidPolicy(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MEMBERSHIP_FAIL_POLICY", "fail_sideways")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid membership fail policy")
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	// t.Setenv registers the restore; unset to simulate absence.
	t.Setenv("BOT_TOKEN", "x")
	os.Unsetenv("BOT_TOKEN")
	t.Setenv("ADMIN_ID", "42")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error when BOT_TOKEN is missing")
	}
}
