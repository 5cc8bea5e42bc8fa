package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv       string `env:"APP_ENV" default:"development"`
	Port         string `env:"PORT" default:"8080"`
	DiscordToken string `env:"DISCORD_TOKEN"`

	// GuildChannels maps guild IDs to the channel hosting the role
	// assignment messages, as "guildID=channelID,guildID=channelID".
	GuildChannels string `env:"GUILD_CHANNELS"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Token bucket parameters for per-user role changes: one token per
	// second, burst of 30.
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" default:"1s"`
	RateLimitTokens   float64       `env:"RATE_LIMIT_TOKENS" default:"1"`
	RateLimitCapacity float64       `env:"RATE_LIMIT_CAPACITY" default:"30"`

	BootstrapTimeout time.Duration `env:"BOOTSTRAP_TIMEOUT" default:"60s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DISCORD_TOKEN":  cfg.DiscordToken,
		"GUILD_CHANNELS": cfg.GuildChannels,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if _, err := ParseGuildChannels(cfg.GuildChannels); err != nil {
		return err
	}

	if cfg.RateLimitInterval <= 0 {
		return errors.New("RATE_LIMIT_INTERVAL must be positive")
	}
	if cfg.RateLimitTokens <= 0 || cfg.RateLimitCapacity <= 0 {
		return errors.New("RATE_LIMIT_TOKENS and RATE_LIMIT_CAPACITY must be positive")
	}

	return nil
}

// ParseGuildChannels parses the GUILD_CHANNELS mapping. Order of pairs is
// irrelevant; duplicate guild IDs are rejected.
func ParseGuildChannels(raw string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		guildID, channelID, ok := strings.Cut(pair, "=")
		if !ok || guildID == "" || channelID == "" {
			return nil, fmt.Errorf("GUILD_CHANNELS entry %q must be guildID=channelID", pair)
		}
		if _, dup := mapping[guildID]; dup {
			return nil, fmt.Errorf("GUILD_CHANNELS lists guild %s twice", guildID)
		}
		mapping[guildID] = channelID
	}
	if len(mapping) == 0 {
		return nil, errors.New("GUILD_CHANNELS must list at least one guild")
	}
	return mapping, nil
}
