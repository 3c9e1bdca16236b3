package placement

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
)

func TestPlaceActivatesAfterBothPhases(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)

	var states []State
	bus.Subscribe(events.Create, events.Phase1, func(e *Entity) error {
		states = append(states, e.State())
		return nil
	})
	bus.Subscribe(events.Create, events.Phase2, func(e *Entity) error {
		states = append(states, e.State())
		return nil
	})

	e, err := placer.Place("drill", core.C(3, 3), Size{W: 2, H: 2})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if e.State() != Active {
		t.Errorf("State() = %v, expected active", e.State())
	}
	for i, s := range states {
		if s != Uninitialized {
			t.Errorf("handler %d saw state %v; entity must not be usable before both phases finish", i, s)
		}
	}
	if e.Tag() != "drill" || e.Anchor() != core.C(3, 3) || e.Size() != (Size{W: 2, H: 2}) {
		t.Errorf("unexpected entity metadata: %s %v %v", e.Tag(), e.Anchor(), e.Size())
	}
}

func TestPlaceInvalidSizePublishesNothing(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)

	published := 0
	bus.Subscribe(events.Create, events.Phase1, func(*Entity) error {
		published++
		return nil
	})

	e, err := placer.Place("cable", core.C(0, 0), Size{W: 0, H: 1})
	if !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Place() error = %v, expected ErrInvalidSize", err)
	}
	if e != nil {
		t.Error("no entity should be constructed for an invalid size")
	}
	if published != 0 {
		t.Error("nothing should be published for an invalid size")
	}
}

func TestPlaceRollsBackOnFault(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)
	errFull := errors.New("full")

	var trace []string
	bus.Subscribe(events.Create, events.Phase1, func(e *Entity) error {
		trace = append(trace, "create")
		return errFull
	})
	bus.Subscribe(events.Destroy, events.Phase1, func(e *Entity) error {
		trace = append(trace, fmt.Sprintf("destroy:%s", e.State()))
		return nil
	})

	e, err := placer.Place("drill", core.C(0, 0), Size{W: 1, H: 1})
	if !errors.Is(err, ErrPlacementRejected) {
		t.Fatalf("Place() error = %v, expected ErrPlacementRejected", err)
	}
	if !errors.Is(err, errFull) {
		t.Errorf("Place() error should carry the handler error, got %v", err)
	}
	if e != nil {
		t.Error("a rejected placement returns no entity")
	}
	if len(trace) != 2 || trace[0] != "create" || trace[1] != "destroy:uninitialized" {
		t.Errorf("trace = %v, expected create then rollback destroy", trace)
	}
	if len(events.Faults(err)) != 1 {
		t.Errorf("expected one handler fault in %v", err)
	}
}

func TestRemoveKeepsEntityReadableThroughDestroy(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)

	e, err := placer.Place("drill", core.C(0, 0), Size{W: 3, H: 2})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	for _, phase := range []events.Phase{events.Phase1, events.Phase2} {
		phase := phase
		bus.Subscribe(events.Destroy, phase, func(got *Entity) error {
			if got.State() != Active {
				t.Errorf("%s saw state %v, expected active", phase, got.State())
			}
			if got.Footprint().Len() != 6 || got.Border().Len() != 10 {
				t.Errorf("%s could not read cells", phase)
			}
			return nil
		})
	}

	if err := placer.Remove(e); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if e.State() != Destroyed {
		t.Errorf("State() = %v after Remove, expected destroyed", e.State())
	}
	if err := placer.Remove(e); !errors.Is(err, ErrNotActive) {
		t.Errorf("second Remove() error = %v, expected ErrNotActive", err)
	}
	if err := placer.Remove(nil); !errors.Is(err, ErrNotActive) {
		t.Errorf("Remove(nil) error = %v, expected ErrNotActive", err)
	}
}

func TestRemoveCompletesDespiteFault(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)
	e, _ := placer.Place("cable", core.C(0, 0), Size{W: 1, H: 1})

	bus.Subscribe(events.Destroy, events.Phase2, func(*Entity) error {
		return errors.New("observer down")
	})

	if err := placer.Remove(e); err == nil {
		t.Error("Remove() should report the destroy fault")
	}
	if e.State() != Destroyed {
		t.Error("entity should be destroyed even when a destroy handler faults")
	}
}

// A Phase1 handler fills an occupancy map; a Phase2 handler checks that every
// footprint cell is already there.
func TestPhase2SeesPhase1Occupancy(t *testing.T) {
	bus := NewBus(nil)
	placer := NewPlacer(bus, nil)

	occupancy := map[core.Coord]ID{}
	bus.Subscribe(events.Create, events.Phase1, func(e *Entity) error {
		e.Footprint().Each(func(c core.Coord) {
			occupancy[c] = e.ID()
		})
		return nil
	})
	bus.Subscribe(events.Destroy, events.Phase1, func(e *Entity) error {
		e.Footprint().Each(func(c core.Coord) {
			delete(occupancy, c)
		})
		return nil
	})

	checked := 0
	bus.Subscribe(events.Create, events.Phase2, func(e *Entity) error {
		e.Footprint().Each(func(c core.Coord) {
			if occupancy[c] != e.ID() {
				t.Errorf("cell %v of %s missing from occupancy in phase 2", c, e.ID())
			}
		})
		checked++
		return nil
	})
	bus.Subscribe(events.Destroy, events.Phase2, func(e *Entity) error {
		e.Footprint().Each(func(c core.Coord) {
			if _, ok := occupancy[c]; ok {
				t.Errorf("cell %v still occupied in destroy phase 2", c)
			}
		})
		return nil
	})

	var placed []*Entity
	for i := 0; i < 5; i++ {
		e, err := placer.Place("block", core.C(i*4, 0), Size{W: 1 + i%3, H: 1 + i%2})
		if err != nil {
			t.Fatalf("Place() error = %v", err)
		}
		placed = append(placed, e)
	}
	for _, e := range placed {
		if err := placer.Remove(e); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
	}

	if checked != 5 {
		t.Errorf("phase 2 check ran %d times, expected 5", checked)
	}
	if len(occupancy) != 0 {
		t.Errorf("occupancy should be empty after removal, has %d cells", len(occupancy))
	}
}
