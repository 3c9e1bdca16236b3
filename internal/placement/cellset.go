package placement

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tilegrid/internal/core"
)

// CellSet is a read-only set of grid cells.
// The zero value is an empty set.
type CellSet struct {
	cells mapset.Set[core.Coord]
}

func newCellSet() CellSet {
	return CellSet{cells: mapset.New[core.Coord]()}
}

func (s CellSet) put(c core.Coord) {
	s.cells.Put(c)
}

// Has reports whether c is in the set.
func (s CellSet) Has(c core.Coord) bool {
	return s.cells.Has(c)
}

// Len returns the number of cells.
func (s CellSet) Len() int {
	return s.cells.Size()
}

// Each calls fn for every cell in unspecified order.
func (s CellSet) Each(fn func(core.Coord)) {
	s.cells.Each(fn)
}

// Slice returns the cells sorted row-major.
func (s CellSet) Slice() []core.Coord {
	out := make([]core.Coord, 0, s.Len())
	s.cells.Each(func(c core.Coord) {
		out = append(out, c)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

// Intersects reports whether the two sets share at least one cell.
func (s CellSet) Intersects(other CellSet) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	found := false
	small.Each(func(c core.Coord) {
		if !found && large.Has(c) {
			found = true
		}
	})
	return found
}

// Bounds returns the bounding rectangle of the set.
func (s CellSet) Bounds() core.Rect {
	return core.BoundsOf(s.Slice())
}
