package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings that may be overridden from the environment.
// Command-line flags take precedence over these values.
type Env struct {
	ConfigPath string `env:"TILEGRID_CONFIG"`
	DBPath     string `env:"TILEGRID_DB" envDefault:"~/.tilegrid/journal.db"`
	TickRate   int    `env:"TILEGRID_FPS"`
	LogLevel   string `env:"TILEGRID_LOG_LEVEL"`
	Difficulty string `env:"TILEGRID_DIFFICULTY" envDefault:"normal"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return e, err
	}
	return e, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Apply overrides game settings in cfg with any values set in e.
func (e Env) Apply(cfg *ColonyConfig) {
	if e.TickRate > 0 {
		cfg.Game.TickRate = e.TickRate
	}
	if e.LogLevel != "" {
		cfg.Game.LogLevel = e.LogLevel
	}
}
