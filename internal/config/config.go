package config

import (
	"errors"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the bot needs injected: no identities or
// prefixes are compiled in.
type Config struct {
	// DiscordToken is the preferred token variable; BotToken is the legacy
	// name. The first one set wins.
	DiscordToken string `env:"DISCORD_TOKEN"`
	BotToken     string `env:"BOT_TOKEN"`

	Prefix      string `env:"COMMAND_PREFIX" envDefault:"-"`
	DeveloperID string `env:"DEVELOPER_ID"`

	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CasefilePath string `env:"CASEFILE_DB" envDefault:"casefiles.db"`
}

// New loads configuration from .env and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Token() == "" {
		return nil, errors.New("no token set: define DISCORD_TOKEN or BOT_TOKEN")
	}
	if cfg.DeveloperID == "" {
		return nil, errors.New("DEVELOPER_ID is not set")
	}
	return cfg, nil
}

// Token returns the bot token from the first set variable.
func (c *Config) Token() string {
	if c.DiscordToken != "" {
		return c.DiscordToken
	}
	return c.BotToken
}
