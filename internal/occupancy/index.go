// Package occupancy tracks which entity occupies each grid cell.
//
// The index subscribes to Phase1 of the lifecycle bus, so it is up to date
// before any Phase2 observer runs. It owns the no-overlap rule: a create
// whose footprint touches an occupied cell is rejected, which makes the
// placer roll the entity back.
package occupancy

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/placement"
)

// ErrDuplicateOccupancy is returned when a footprint overlaps an occupied cell.
var ErrDuplicateOccupancy = errors.New("occupancy: cell already occupied")

// Index maps cells to the entity occupying them.
type Index struct {
	cells    map[core.Coord]*placement.Entity
	entities int
}

// New creates an empty index.
func New() *Index {
	return &Index{cells: make(map[core.Coord]*placement.Entity)}
}

// Attach subscribes the index to Phase1 of bus.
func (ix *Index) Attach(bus *placement.Bus) {
	bus.Subscribe(events.Create, events.Phase1, ix.Insert)
	bus.Subscribe(events.Destroy, events.Phase1, ix.Release)
}

// Insert records every footprint cell of e. Either all cells are recorded
// or, if any is taken by another entity, none are. Inserting an entity the
// index already holds is a no-op.
func (ix *Index) Insert(e *placement.Entity) error {
	if ix.cells[e.Anchor()] == e {
		return nil
	}

	var conflict error
	e.Footprint().Each(func(c core.Coord) {
		if conflict != nil {
			return
		}
		if other, ok := ix.cells[c]; ok && other != e {
			conflict = fmt.Errorf("%w: %v held by %s %s", ErrDuplicateOccupancy, c, other.Tag(), other.ID())
		}
	})
	if conflict != nil {
		return conflict
	}

	e.Footprint().Each(func(c core.Coord) {
		ix.cells[c] = e
	})
	ix.entities++
	return nil
}

// Release clears the cells held by e. Cells held by other entities are left
// alone, so releasing an entity that was never inserted is a no-op.
func (ix *Index) Release(e *placement.Entity) error {
	released := false
	e.Footprint().Each(func(c core.Coord) {
		if ix.cells[c] == e {
			delete(ix.cells, c)
			released = true
		}
	})
	if released {
		ix.entities--
	}
	return nil
}

// At returns the entity occupying c, if any.
func (ix *Index) At(c core.Coord) (*placement.Entity, bool) {
	e, ok := ix.cells[c]
	return e, ok
}

// Occupied reports whether c is taken.
func (ix *Index) Occupied(c core.Coord) bool {
	_, ok := ix.cells[c]
	return ok
}

// AnyOccupied reports whether any of cells is taken.
func (ix *Index) AnyOccupied(cells []core.Coord) bool {
	for _, c := range cells {
		if ix.Occupied(c) {
			return true
		}
	}
	return false
}

// Cells returns the number of occupied cells.
func (ix *Index) Cells() int {
	return len(ix.cells)
}

// Len returns the number of indexed entities.
func (ix *Index) Len() int {
	return ix.entities
}
