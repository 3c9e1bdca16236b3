// Package tiles describes the terrain the colony is built on and converts
// world positions to tile coordinates.
package tiles

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tilegrid/internal/core"
)

// Type classifies a tile.
type Type uint8

const (
	None Type = iota // outside the map
	Grass
	Coal
	Water
	Rock
)

var typeNames = map[Type]string{
	None:  "none",
	Grass: "grass",
	Coal:  "coal",
	Water: "water",
	Rock:  "rock",
}

// String returns the config name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType converts a config name to a Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name && t != None {
			return t, nil
		}
	}
	return None, fmt.Errorf("tiles: unknown tile type %q", name)
}

// Point is a position in world units (terminal cells in the TUI).
type Point struct {
	X, Y float64
}

// Layout places the tile grid in world space.
type Layout struct {
	OriginX, OriginY float64 // world position of tile (0,0)'s top-left corner
	CellW, CellH     float64 // size of one tile in world units
}

// DefaultLayout maps one tile to two terminal columns and one row.
func DefaultLayout() Layout {
	return Layout{CellW: 2, CellH: 1}
}

// Map is a rectangular grid of tile types.
type Map struct {
	W, H   int
	Layout Layout
	tiles  []Type // row-major: index = y*W + x
}

// NewMap creates a w×h map filled with fill.
func NewMap(w, h int, fill Type) *Map {
	m := &Map{W: w, H: h, Layout: DefaultLayout(), tiles: make([]Type, w*h)}
	for i := range m.tiles {
		m.tiles[i] = fill
	}
	return m
}

// Bounds returns the map area in tile coordinates.
func (m *Map) Bounds() core.Rect {
	return core.NewRect(0, 0, m.W, m.H)
}

// InBounds reports whether c lies on the map.
func (m *Map) InBounds(c core.Coord) bool {
	return m.Bounds().Contains(c)
}

// TypeAt returns the tile type at c, or None outside the map.
func (m *Map) TypeAt(c core.Coord) Type {
	if !m.InBounds(c) {
		return None
	}
	return m.tiles[c.Y*m.W+c.X]
}

// Set changes the tile at c. Out-of-bounds writes are ignored.
func (m *Map) Set(c core.Coord, t Type) {
	if m.InBounds(c) {
		m.tiles[c.Y*m.W+c.X] = t
	}
}

// WorldToTile converts a world position to the tile containing it.
// The second result is false when the position is outside the map.
func (m *Map) WorldToTile(p Point) (core.Coord, bool) {
	l := m.Layout
	if l.CellW <= 0 || l.CellH <= 0 {
		return core.Coord{}, false
	}
	c := core.C(
		int(math.Floor((p.X-l.OriginX)/l.CellW)),
		int(math.Floor((p.Y-l.OriginY)/l.CellH)),
	)
	return c, m.InBounds(c)
}

// TileToWorld returns the world position of the top-left corner of c.
func (m *Map) TileToWorld(c core.Coord) Point {
	l := m.Layout
	return Point{
		X: l.OriginX + float64(c.X)*l.CellW,
		Y: l.OriginY + float64(c.Y)*l.CellH,
	}
}

// TypeAtPoint returns the tile type under a world position.
func (m *Map) TypeAtPoint(p Point) Type {
	c, ok := m.WorldToTile(p)
	if !ok {
		return None
	}
	return m.TypeAt(c)
}

// Count returns how many tiles have type t.
func (m *Map) Count(t Type) int {
	n := 0
	for _, tile := range m.tiles {
		if tile == t {
			n++
		}
	}
	return n
}
