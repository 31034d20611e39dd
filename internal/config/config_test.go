package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	for _, key := range []string{
		"PORT", "LOG_LEVEL", "SHARED_SECRET", "GROUP_ID", "IDENTITY_TIMEOUT",
		"DISCORD_TOKEN", "CLIENT_ID", "GUILD_ID",
	} {
		// t.Setenv restores the original value on cleanup.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want 3000", cfg.ServerPort)
	}
	if cfg.HomeGroupID != 35324584 {
		t.Errorf("HomeGroupID = %d, want 35324584", cfg.HomeGroupID)
	}
	if cfg.IdentityTimeout != 5*time.Second {
		t.Errorf("IdentityTimeout = %s, want 5s", cfg.IdentityTimeout)
	}
	if cfg.SharedSecret != "" {
		t.Errorf("SharedSecret = %q, want empty", cfg.SharedSecret)
	}
	if cfg.DiscordEnabled() {
		t.Error("DiscordEnabled() = true without credentials")
	}
}

func TestLoadFromEnv(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	t.Setenv("PORT", "9090")
	t.Setenv("SHARED_SECRET", "hunter2")
	t.Setenv("GROUP_ID", "12658410")
	t.Setenv("IDENTITY_TIMEOUT", "750ms")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CLIENT_ID", "app")
	t.Setenv("GUILD_ID", "guild")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.SharedSecret != "hunter2" || cfg.HomeGroupID != 12658410 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.IdentityTimeout != 750*time.Millisecond {
		t.Errorf("IdentityTimeout = %s, want 750ms", cfg.IdentityTimeout)
	}
	if !cfg.DiscordEnabled() {
		t.Error("DiscordEnabled() = false with all credentials set")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non-numeric group", "GROUP_ID", "republic"},
		{"negative group", "GROUP_ID", "-4"},
		{"zero timeout", "IDENTITY_TIMEOUT", "0s"},
		{"unknown log level", "LOG_LEVEL", "shouting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(zerolog.Nop()); err == nil {
				t.Fatalf("Load with %s=%q succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestLoadAppliesLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	t.Setenv("LOG_LEVEL", "warn")
	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Errorf("global level = %s, want warn", got)
	}
}
