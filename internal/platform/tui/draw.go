package tui

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// terrainGlyphs maps tile types to their map glyph and color.
var terrainGlyphs = map[tiles.Type]core.Cell{
	tiles.Grass: {Rune: '.', Color: core.ColorGreen},
	tiles.Coal:  {Rune: ':', Color: core.ColorGray},
	tiles.Water: {Rune: '~', Color: core.ColorBlue},
	tiles.Rock:  {Rune: '^', Color: core.ColorWhite},
}

// fillTile paints every terminal cell covered by tile t.
func fillTile(dst *core.Screen, m *tiles.Map, t core.Coord, r rune, c core.Color) {
	p := m.TileToWorld(t)
	x0, y0 := int(p.X), int(p.Y)
	for dy := 0; dy < int(m.Layout.CellH); dy++ {
		for dx := 0; dx < int(m.Layout.CellW); dx++ {
			dst.SetColored(x0+dx, y0+dy, r, c)
		}
	}
}

// drawColony renders terrain, structures, the placement preview and the
// cursor. The map frame is drawn one cell outside the layout origin.
func drawColony(dst *core.Screen, c *colony.Colony, cursor core.Coord) {
	m := c.Terrain()

	origin := m.TileToWorld(core.C(0, 0))
	frame := core.NewRect(int(origin.X)-1, int(origin.Y)-1,
		m.W*int(m.Layout.CellW)+2, m.H*int(m.Layout.CellH)+2)
	dst.DrawBox(frame, core.ColorGray)

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			t := core.C(x, y)
			g := terrainGlyphs[m.TypeAt(t)]
			fillTile(dst, m, t, g.Rune, g.Color)
		}
	}

	for _, s := range c.Structures() {
		bp, err := c.Blueprint(s)
		if err != nil {
			continue
		}
		s.Footprint().Each(func(t core.Coord) {
			fillTile(dst, m, t, bp.Glyph, bp.Color)
		})
	}

	if preview, err := c.Buyer().Preview(cursor); err == nil {
		color := core.ColorBrightGreen
		if !preview.Valid() {
			color = core.ColorBrightRed
		}
		preview.Border.Each(func(t core.Coord) {
			if m.InBounds(t) {
				fillTile(dst, m, t, '·', core.ColorCyan)
			}
		})
		bp, _ := c.Buyer().Selected()
		preview.Footprint.Each(func(t core.Coord) {
			if m.InBounds(t) {
				fillTile(dst, m, t, bp.Glyph, color)
			}
		})
	}

	// Cursor brackets around the tile.
	if m.InBounds(cursor) {
		p := m.TileToWorld(cursor)
		x, y := int(p.X), int(p.Y)
		w := int(m.Layout.CellW)
		if w >= 2 {
			dst.SetColored(x, y, '[', core.ColorBrightYellow)
			dst.SetColored(x+w-1, y, ']', core.ColorBrightYellow)
		} else {
			dst.SetColored(x, y, '+', core.ColorBrightYellow)
		}
	}
}

// statusLines returns the text shown under the map.
func statusLines(c *colony.Colony, cursor core.Coord) []string {
	rate := c.IncomeRate()
	kinds := c.Ledger().Kinds()
	for k := range rate {
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)

	balances := make([]string, 0, len(kinds))
	for _, k := range kinds {
		balances = append(balances, fmt.Sprintf("%s %.0f (+%.1f/s)", k, c.Ledger().Get(k), rate[k]))
	}

	mode := c.Buyer().Mode().String()
	if bp, ok := c.Buyer().Selected(); ok {
		mode = fmt.Sprintf("placing %s (%s, %s)", bp.Name, bp.Size, formatCost(bp.Cost))
	}

	under := c.Terrain().TypeAt(cursor).String()
	if s, ok := c.At(cursor); ok {
		under = fmt.Sprintf("%s on %s, linked to %d buildings", s.Tag(), under, linkedBuildings(c, s))
	}

	return []string{
		strings.Join(balances, "  "),
		fmt.Sprintf("%s | tile %v %s | %d structures, %d networks",
			mode, cursor, under, len(c.Structures()), len(c.Networks())),
	}
}

// linkedBuildings counts the other buildings sharing a network with s.
func linkedBuildings(c *colony.Colony, s *placement.Entity) int {
	n := 0
	for _, other := range c.Structures() {
		if other == s {
			continue
		}
		if bp, err := c.Blueprint(other); err != nil || bp.Kind != blueprint.Building {
			continue
		}
		if c.Grid().Connected(s, other) {
			n++
		}
	}
	return n
}

// blueprintBar lists the catalog with number shortcuts.
func blueprintBar(c *colony.Colony) string {
	var parts []string
	selected, placing := c.Buyer().Selected()
	for i, bp := range c.Catalog().List() {
		if i >= 9 {
			break
		}
		label := fmt.Sprintf("%d:%s", i+1, bp.Name)
		if placing && bp.ID == selected.ID {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func formatCost(cost map[ledger.Kind]float64) string {
	if len(cost) == 0 {
		return "free"
	}
	parts := make([]string, 0, len(cost))
	for k, v := range cost {
		parts = append(parts, fmt.Sprintf("%.0f %s", v, k))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
