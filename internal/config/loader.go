package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const colonyFile = "colony.yaml"

// Load loads the colony configuration.
// Search order: customPath -> ~/.tilegrid/configs/colony.yaml -> ./configs/colony.yaml -> embedded default
func Load(customPath string) (ColonyConfig, error) {
	var cfg ColonyConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return withDefaults(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(colonyFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return withDefaults(cfg), nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", colonyFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return withDefaults(cfg), nil
		}
	}

	return DefaultColonyConfig(), nil
}

// withDefaults fills sections a partial user file leaves out from the
// embedded default.
func withDefaults(cfg ColonyConfig) ColonyConfig {
	def := DefaultColonyConfig()
	if cfg.Game.TickRate <= 0 {
		cfg.Game.TickRate = def.Game.TickRate
	}
	if cfg.Game.LogLevel == "" {
		cfg.Game.LogLevel = def.Game.LogLevel
	}
	if len(cfg.Economy.Starting) == 0 {
		cfg.Economy = def.Economy
	}
	if len(cfg.Blueprints) == 0 {
		cfg.Blueprints = def.Blueprints
	}
	if len(cfg.Map.Rows) == 0 {
		cfg.Map = def.Map
	}
	if cfg.Layout.CellW <= 0 || cfg.Layout.CellH <= 0 {
		cfg.Layout = def.Layout
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilegrid", "configs", filename)
}
