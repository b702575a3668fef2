package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported chat adapters.
const (
	AdapterDiscord = "discord"
	AdapterCLI     = "cli"
)

type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN"`
	Adapter      string `env:"BOT_ADAPTER" envDefault:"discord"`
	Name         string `env:"BOT_NAME" envDefault:"AwooBot"`
	Prefix       string `env:"COMMAND_PREFIX" envDefault:"!"`

	MaxDice  int `env:"ROLL_MAX_DICE" envDefault:"20"`
	MaxSides int `env:"ROLL_MAX_SIDES" envDefault:"100"`

	HandlerTimeout time.Duration `env:"HANDLER_TIMEOUT" envDefault:"1m"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"REDIS_KEY" envDefault:"awoobot"`

	MemeFontPath string `env:"MEME_FONT_PATH"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load reads the optional .env files and parses the configuration from the
// environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Adapter {
	case AdapterDiscord:
		if c.DiscordToken == "" {
			return errors.New("DISCORD_BOT_TOKEN is not set")
		}
	case AdapterCLI:
	default:
		return fmt.Errorf("unknown BOT_ADAPTER %q", c.Adapter)
	}

	if c.Prefix == "" {
		return errors.New("COMMAND_PREFIX must not be empty")
	}
	if c.MaxDice < 1 || c.MaxSides < 1 {
		return fmt.Errorf("invalid roll limits: %d dice, %d sides", c.MaxDice, c.MaxSides)
	}
	return nil
}
