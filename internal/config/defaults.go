package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilegrid/internal/tiles"
)

//go:embed defaults/colony.yaml
var defaultColonyYAML []byte

// DefaultColonyConfig returns the embedded default configuration.
// Falls back to a minimal hardcoded config if the embed cannot be parsed.
func DefaultColonyConfig() ColonyConfig {
	var cfg ColonyConfig
	if err := yaml.Unmarshal(defaultColonyYAML, &cfg); err != nil {
		return minimalColonyConfig()
	}
	return cfg
}

func minimalColonyConfig() ColonyConfig {
	return ColonyConfig{
		Game: GameConfig{TickRate: 30, LogLevel: "info"},
		Economy: EconomyConfig{
			Starting: map[string]float64{"money": 100},
		},
		Blueprints: []BlueprintConfig{
			{ID: "cable", Name: "Power Cable", Kind: "cable", Width: 1, Height: 1,
				Cost: map[string]float64{"money": 5}, Glyph: "+", Color: "gray"},
			{ID: "plant", Name: "Power Plant", Kind: "building", Width: 2, Height: 2,
				Cost: map[string]float64{"money": 50}, Income: map[string]float64{"money": 2},
				Placeable: []string{"grass"}, Glyph: "P", Color: "orange"},
		},
		Map: tiles.Sheet{Rows: []string{
			"................",
			"................",
			"................",
			"................",
			"................",
			"................",
			"................",
			"................",
		}},
		Layout: LayoutConfig{OriginX: 1, OriginY: 1, CellW: 2, CellH: 1},
	}
}
