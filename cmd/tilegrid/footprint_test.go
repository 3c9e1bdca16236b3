package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tilegrid/internal/placement"
)

func TestRenderFootprint2x2(t *testing.T) {
	out, err := renderFootprint(placement.Size{W: 2, H: 2})
	if err != nil {
		t.Fatalf("renderFootprint() error = %v", err)
	}

	// Rows -2..1; the extra row of an even height sits above the anchor.
	expected := []string{
		"  -2   .  +  +  .",
		"  -1   +  #  #  +",
		"   0   +  @  #  +",
		"   1   .  +  +  .",
	}
	for _, row := range expected {
		if !strings.Contains(out, row+"\n") {
			t.Errorf("output missing row %q:\n%s", row, out)
		}
	}
	if !strings.Contains(out, "footprint: 4 cells") || !strings.Contains(out, "border:    8 cells") {
		t.Errorf("summary lines missing:\n%s", out)
	}
}

func TestRenderFootprintInvalid(t *testing.T) {
	if _, err := renderFootprint(placement.Size{W: 0, H: 3}); !errors.Is(err, placement.ErrInvalidSize) {
		t.Errorf("renderFootprint() error = %v, expected ErrInvalidSize", err)
	}
}
