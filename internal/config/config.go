// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	DiscordToken     string        `env:"DISCORD_TOKEN,required"`
	StoragePath      string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	DefaultPrefix    string        `env:"DEFAULT_PREFIX" envDefault:"!"`
	DefaultLanguage  string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	BotOwnerIDs      []string      `env:"BOT_OWNER_IDS" envSeparator:","`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL" envDefault:"10m"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return cfg, nil
}
