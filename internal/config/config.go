// Package config provides YAML-based colony configuration loading and
// environment overrides for the tilegrid commands.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// ColonyConfig contains everything needed to start a colony.
type ColonyConfig struct {
	Game       GameConfig        `yaml:"game"`
	Economy    EconomyConfig     `yaml:"economy"`
	Blueprints []BlueprintConfig `yaml:"blueprints"`
	Map        tiles.Sheet       `yaml:"map"`
	Layout     LayoutConfig      `yaml:"layout"`
}

// GameConfig holds session-wide settings.
type GameConfig struct {
	TickRate int    `yaml:"tick_rate"`
	LogLevel string `yaml:"log_level"`
}

// EconomyConfig defines the starting balances per resource.
type EconomyConfig struct {
	Starting map[string]float64 `yaml:"starting"`
}

// BlueprintConfig is the YAML form of a blueprint.
type BlueprintConfig struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	Kind      string             `yaml:"kind"`
	Width     int                `yaml:"width"`
	Height    int                `yaml:"height"`
	Cost      map[string]float64 `yaml:"cost"`
	Income    map[string]float64 `yaml:"income"`
	Placeable []string           `yaml:"placeable"`
	Glyph     string             `yaml:"glyph"`
	Color     string             `yaml:"color"`
}

// LayoutConfig places the map in terminal space.
type LayoutConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	CellW   float64 `yaml:"cell_w"`
	CellH   float64 `yaml:"cell_h"`
}

// Opening returns the starting balances keyed by resource kind.
func (c ColonyConfig) Opening() map[ledger.Kind]float64 {
	return toKinds(c.Economy.Starting)
}

// Catalog builds the blueprint catalog.
func (c ColonyConfig) Catalog() (*blueprint.Catalog, error) {
	if len(c.Blueprints) == 0 {
		return nil, fmt.Errorf("config: no blueprints defined")
	}
	items := make([]blueprint.Blueprint, 0, len(c.Blueprints))
	for _, bc := range c.Blueprints {
		b, err := bc.Blueprint()
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return blueprint.NewCatalog(items...)
}

// TileMap builds the terrain with the configured layout applied.
func (c ColonyConfig) TileMap() (*tiles.Map, error) {
	m, err := c.Map.Build()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	l := tiles.Layout{
		OriginX: c.Layout.OriginX,
		OriginY: c.Layout.OriginY,
		CellW:   c.Layout.CellW,
		CellH:   c.Layout.CellH,
	}
	if l.CellW > 0 && l.CellH > 0 {
		m.Layout = l
	}
	return m, nil
}

// Blueprint converts the YAML form to a catalog entry.
func (bc BlueprintConfig) Blueprint() (blueprint.Blueprint, error) {
	b := blueprint.Blueprint{
		ID:     bc.ID,
		Name:   bc.Name,
		Kind:   blueprint.Kind(strings.ToLower(bc.Kind)),
		Size:   placement.Size{W: bc.Width, H: bc.Height},
		Cost:   toKinds(bc.Cost),
		Income: toKinds(bc.Income),
		Glyph:  '?',
		Color:  core.ColorWhite,
	}
	if b.Name == "" {
		b.Name = bc.ID
	}
	if b.Kind == "" {
		b.Kind = blueprint.Building
	}
	for _, name := range bc.Placeable {
		t, err := tiles.ParseType(name)
		if err != nil {
			return b, fmt.Errorf("config: blueprint %q: %w", bc.ID, err)
		}
		b.Placeable = append(b.Placeable, t)
	}
	if bc.Glyph != "" {
		b.Glyph = []rune(bc.Glyph)[0]
	}
	if bc.Color != "" {
		c, ok := core.ParseColor(bc.Color)
		if !ok {
			return b, fmt.Errorf("config: blueprint %q: unknown color %q", bc.ID, bc.Color)
		}
		b.Color = c
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("config: %w", err)
	}
	return b, nil
}

func toKinds(m map[string]float64) map[ledger.Kind]float64 {
	out := make(map[ledger.Kind]float64, len(m))
	for k, v := range m {
		out[ledger.Kind(k)] = v
	}
	return out
}
