// Package placement computes the cells a placeable entity covers, decides
// adjacency between entities and drives their two-phase lifecycle.
package placement

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilegrid/internal/core"
)

// ErrInvalidSize is returned when a footprint width or height is not positive.
var ErrInvalidSize = errors.New("placement: invalid size")

// Size is a footprint extent in cells.
type Size struct {
	W int
	H int
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Area returns W*H.
func (s Size) Area() int {
	return s.W * s.H
}

// Validate returns ErrInvalidSize unless both dimensions are positive.
func (s Size) Validate() error {
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSize, s)
	}
	return nil
}

// span returns the inclusive offset range for one axis. Odd extents are
// centred on the anchor; even extents put the extra cell on the positive side.
func span(n int) (start, end int) {
	return -((n - 1) / 2), n / 2
}

// Compute returns the footprint of an entity of the given size anchored at
// anchor, and the border cells that surround it.
//
// Footprint cells are anchor + (dx, -dy): a positive vertical offset moves
// up a row, so the extra row of an even height sits above the anchor.
// The border holds each 4-neighbour of the footprint that is not itself in
// the footprint, once.
func Compute(anchor core.Coord, size Size) (footprint, border CellSet, err error) {
	if err := size.Validate(); err != nil {
		return CellSet{}, CellSet{}, err
	}

	startX, endX := span(size.W)
	startY, endY := span(size.H)

	footprint = newCellSet()
	for dx := startX; dx <= endX; dx++ {
		for dy := startY; dy <= endY; dy++ {
			footprint.put(anchor.Add(dx, -dy))
		}
	}

	border = newCellSet()
	footprint.Each(func(c core.Coord) {
		for _, n := range core.Neighbors4 {
			next := c.AddCoord(n)
			if !footprint.Has(next) {
				border.put(next)
			}
		}
	})

	return footprint, border, nil
}
