package placement

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
)

var (
	// ErrPlacementRejected is returned when a create handler faulted and the
	// entity was rolled back.
	ErrPlacementRejected = errors.New("placement: placement rejected")

	// ErrNotActive is returned when removing an entity that is not Active.
	ErrNotActive = errors.New("placement: entity not active")
)

// Placer creates and removes entities, announcing each transition on the bus.
type Placer struct {
	bus    *Bus
	logger *log.Logger
}

// NewPlacer creates a placer publishing on bus. A nil logger discards logs.
func NewPlacer(bus *Bus, logger *log.Logger) *Placer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Placer{bus: bus, logger: logger}
}

// Place computes the cells for a new entity and publishes its creation.
//
// An invalid size fails before anything is published. If any create handler
// faults, the half-created entity is rolled back by publishing a destroy for
// it, and the returned error wraps ErrPlacementRejected together with the
// handler faults. The entity is Active only when Place returns nil.
func (p *Placer) Place(tag string, anchor core.Coord, size Size) (*Entity, error) {
	e, err := newEntity(tag, anchor, size)
	if err != nil {
		return nil, err
	}

	if err := p.bus.Publish(events.Create, e); err != nil {
		p.logger.Warn("placement rejected, rolling back",
			"tag", tag,
			"anchor", anchor,
			"size", size,
			"entity", e.id,
		)
		if rbErr := p.bus.Publish(events.Destroy, e); rbErr != nil {
			p.logger.Error("rollback faulted", "entity", e.id, "error", rbErr)
			err = errors.Join(err, rbErr)
		}
		e.state = Destroyed
		return nil, fmt.Errorf("%w: %s at %v: %w", ErrPlacementRejected, tag, anchor, err)
	}

	e.state = Active
	p.logger.Debug("placed", "tag", tag, "anchor", anchor, "size", size, "entity", e.id)
	return e, nil
}

// Remove publishes the destruction of an Active entity. The entity stays
// readable through both phases and is Destroyed once Remove returns, even if
// some destroy handlers faulted; their faults are returned.
func (p *Placer) Remove(e *Entity) error {
	if e == nil || e.state != Active {
		return ErrNotActive
	}

	err := p.bus.Publish(events.Destroy, e)
	e.state = Destroyed
	if err != nil {
		return fmt.Errorf("placement: remove %s: %w", e.id, err)
	}
	p.logger.Debug("removed", "tag", e.tag, "anchor", e.anchor, "entity", e.id)
	return nil
}
