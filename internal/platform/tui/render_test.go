package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "plain")
	s.DrawTextColored(6, 0, "red", core.ColorRed)
	s.DrawTextColored(0, 2, "mixed", core.Color(200)) // unknown color renders unstyled

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderScreen() produced %d lines, expected 3", len(lines))
	}
	for _, want := range []string{"plain", "red", "mixed"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() should contain %q", want)
		}
	}
}

func TestDrawColonyShowsStructuresAndPreview(t *testing.T) {
	c := newTestColony(t)
	s := core.NewScreen(80, 20)

	if err := c.Buyer().Select("cable"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Buyer().PlaceAt(core.C(0, 0)); err != nil {
		t.Fatal(err)
	}

	drawColony(s, c, core.C(5, 5))

	// Tile (0,0) covers columns 1-2 of row 1.
	if s.Get(1, 1) != '+' || s.Get(2, 1) != '+' {
		t.Errorf("cable glyph missing, row 1 = %q", s.Row(1))
	}
	// Frame corner.
	if s.Get(0, 0) != '┌' {
		t.Errorf("frame corner = %q, expected '┌'", s.Get(0, 0))
	}
	// Cursor brackets at tile (5,5): columns 11-12 of row 6.
	if s.Get(11, 6) != '[' || s.Get(12, 6) != ']' {
		t.Errorf("cursor brackets missing, row 6 = %q", s.Row(6))
	}

	// While placing, the footprint preview uses the blueprint glyph.
	c.Buyer().Select("depot")
	s.Clear()
	drawColony(s, c, core.C(10, 4))
	if s.Get(2*9+1, 5) != 'D' {
		t.Errorf("depot preview missing, row 5 = %q", s.Row(5))
	}
	if c.Buyer().Mode() != colony.Placing {
		t.Error("drawing must not change the buyer")
	}
}

func TestStatusLines(t *testing.T) {
	c := newTestColony(t)
	lines := statusLines(c, core.C(0, 0))
	if len(lines) != 2 {
		t.Fatalf("statusLines() returned %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "money 250") {
		t.Errorf("balances line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "selecting") || !strings.Contains(lines[1], "grass") {
		t.Errorf("mode line = %q", lines[1])
	}
}

func TestStatusLinesCountLinkedBuildings(t *testing.T) {
	c := newTestColony(t)
	for _, step := range []struct {
		id string
		at core.Coord
	}{
		{"plant", core.C(2, 1)},
		{"cable", core.C(4, 0)},
		{"depot", core.C(6, 0)},
	} {
		if err := c.Buyer().Select(step.id); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Buyer().PlaceAt(step.at); err != nil {
			t.Fatalf("PlaceAt(%s at %v) error = %v", step.id, step.at, err)
		}
	}

	tests := []struct {
		cursor   core.Coord
		expected string
	}{
		{core.C(2, 1), "plant on grass, linked to 1 buildings"},
		{core.C(4, 0), "cable on grass, linked to 2 buildings"},
		{core.C(8, 0), "depot on grass, linked to 1 buildings"},
	}
	for _, tt := range tests {
		lines := statusLines(c, tt.cursor)
		if !strings.Contains(lines[1], tt.expected) {
			t.Errorf("statusLines(%v)[1] = %q, expected it to contain %q", tt.cursor, lines[1], tt.expected)
		}
	}
}
