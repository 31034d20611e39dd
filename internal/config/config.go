package config

import (
	"fmt"
	"tarc-profile-bot/internal/logger"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ServerPort string `env:"PORT" envDefault:"3000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Ingest is rejected outright while this is empty.
	SharedSecret string `env:"SHARED_SECRET"`

	HomeGroupID int64 `env:"GROUP_ID" envDefault:"35324584"`

	RobloxAPIKey      string        `env:"ROBLOX_API_KEY"`
	RobloxUsersURL    string        `env:"ROBLOX_USERS_URL" envDefault:"https://users.roblox.com"`
	RobloxGroupsURL   string        `env:"ROBLOX_GROUPS_URL" envDefault:"https://groups.roblox.com"`
	RobloxPresenceURL string        `env:"ROBLOX_PRESENCE_URL" envDefault:"https://presence.roblox.com"`
	IdentityTimeout   time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"5s"`

	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordAppID   string `env:"CLIENT_ID"`
	DiscordGuildID string `env:"GUILD_ID"`
}

// DiscordEnabled reports whether every variable the chat front end needs is set.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordAppID != "" && c.DiscordGuildID != ""
}

func Load(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HomeGroupID <= 0 {
		return nil, fmt.Errorf("GROUP_ID must be positive, got %d", cfg.HomeGroupID)
	}
	if cfg.IdentityTimeout <= 0 {
		return nil, fmt.Errorf("IDENTITY_TIMEOUT must be positive, got %s", cfg.IdentityTimeout)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.SharedSecret == "" {
		log.Warn().Msg("SHARED_SECRET is not set, every ingest request will be rejected")
	}
	if !cfg.DiscordEnabled() {
		log.Warn().Msg("missing DISCORD_TOKEN / CLIENT_ID / GUILD_ID, chat commands disabled")
	}

	log.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", level.String()).
		Int64("home_group_id", cfg.HomeGroupID).
		Dur("identity_timeout", cfg.IdentityTimeout).
		Bool("roblox_api_key", cfg.RobloxAPIKey != "").
		Bool("discord_enabled", cfg.DiscordEnabled()).
		Msg("configuration loaded")

	return cfg, nil
}

var Module = fx.Provide(Load)
