package placement

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
)

// Bus is the lifecycle bus for placeable entities.
type Bus = events.Bus[*Entity]

// NewBus creates an empty lifecycle bus.
var NewBus = events.NewBus[*Entity]

// ID identifies a placed entity for as long as it lives.
type ID = uuid.UUID

// State is the lifecycle state of an entity.
type State int

const (
	Uninitialized State = iota
	Active
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Entity is something occupying a block of grid cells.
// Its cells are fixed at creation; moving or resizing means destroying it
// and placing a new one.
type Entity struct {
	id        ID
	tag       string
	anchor    core.Coord
	size      Size
	footprint CellSet
	border    CellSet
	state     State
}

// newEntity computes the cells for a fresh, not yet announced entity.
func newEntity(tag string, anchor core.Coord, size Size) (*Entity, error) {
	footprint, border, err := Compute(anchor, size)
	if err != nil {
		return nil, err
	}
	return &Entity{
		id:        uuid.New(),
		tag:       tag,
		anchor:    anchor,
		size:      size,
		footprint: footprint,
		border:    border,
		state:     Uninitialized,
	}, nil
}

// ID returns the entity identity.
func (e *Entity) ID() ID { return e.id }

// Tag returns the caller-supplied label (the blueprint id in a colony).
func (e *Entity) Tag() string { return e.tag }

// Anchor returns the cell the footprint was computed from.
func (e *Entity) Anchor() core.Coord { return e.anchor }

// Size returns the footprint extent.
func (e *Entity) Size() Size { return e.size }

// State returns the lifecycle state.
func (e *Entity) State() State { return e.state }

// Footprint returns the cells the entity occupies.
func (e *Entity) Footprint() CellSet { return e.footprint }

// Border returns the cells directly outside the footprint.
func (e *Entity) Border() CellSet { return e.border }

// IsAdjacent reports whether other touches this entity along an edge.
func (e *Entity) IsAdjacent(other *Entity) bool {
	return IsAdjacent(e, other)
}
