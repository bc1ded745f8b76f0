package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/sleepwatch.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz

	// Dispatcher cadence and the local-hour prompt window [from, to).
	TickInterval   time.Duration `envconfig:"TICK_INTERVAL" default:"30m"`
	PromptFromHour int           `envconfig:"PROMPT_FROM_HOUR" default:"11"`
	PromptToHour   int           `envconfig:"PROMPT_TO_HOUR" default:"13"`

	// Trailing window for the leaderboard and plots.
	WindowDays int `envconfig:"WINDOW_DAYS" default:"30"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.PromptFromHour < 0 || cfg.PromptToHour > 24 || cfg.PromptFromHour >= cfg.PromptToHour {
		return cfg, fmt.Errorf("invalid prompt window %d..%d", cfg.PromptFromHour, cfg.PromptToHour)
	}
	if cfg.WindowDays <= 0 {
		return cfg, fmt.Errorf("invalid window days %d", cfg.WindowDays)
	}
	return cfg, nil
}
