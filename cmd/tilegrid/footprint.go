package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/placement"
)

var footprintCmd = &cobra.Command{
	Use:   "footprint <w> <h>",
	Short: "Show the footprint and border of a w×h structure",
	Long: `Prints the cells a w×h structure anchored at (0,0) occupies and the
cells bordering it. Rows grow downward; for even sizes the extra column goes
right of the anchor and the extra row goes above it.

Legend:
  @  anchor
  #  footprint
  +  border
  .  free

Examples:
  tilegrid footprint 1 1
  tilegrid footprint 2 2
  tilegrid footprint 4 1`,
	Args: cobra.ExactArgs(2),
	Run:  runFootprint,
}

func runFootprint(_ *cobra.Command, args []string) {
	w, err := strconv.Atoi(args[0])
	if err != nil {
		fail("width %q is not a number", args[0])
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		fail("height %q is not a number", args[1])
	}

	out, err := renderFootprint(placement.Size{W: w, H: h})
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(out)
}

// renderFootprint draws the footprint and border of size around anchor (0,0).
func renderFootprint(size placement.Size) (string, error) {
	anchor := core.C(0, 0)
	fp, border, err := placement.Compute(anchor, size)
	if err != nil {
		return "", err
	}

	// The border rings the footprint, so its bounds cover both.
	bounds := border.Bounds()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s structure (%d tiles) anchored at %v\n\n", size, size.Area(), anchor)

	sb.WriteString("     ")
	for x := bounds.X; x < bounds.Right(); x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteString("\n")

	for y := bounds.Y; y < bounds.Bottom(); y++ {
		fmt.Fprintf(&sb, "%4d ", y)
		for x := bounds.X; x < bounds.Right(); x++ {
			c := core.C(x, y)
			glyph := '.'
			switch {
			case c == anchor:
				glyph = '@'
			case fp.Has(c):
				glyph = '#'
			case border.Has(c):
				glyph = '+'
			}
			fmt.Fprintf(&sb, "  %c", glyph)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nfootprint: %d cells %v\n", fp.Len(), fp.Slice())
	fmt.Fprintf(&sb, "border:    %d cells %v\n", border.Len(), border.Slice())
	return sb.String(), nil
}
