package occupancy

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/placement"
)

func setup() (*Index, *placement.Placer) {
	bus := placement.NewBus(nil)
	ix := New()
	ix.Attach(bus)
	return ix, placement.NewPlacer(bus, nil)
}

func TestIndexTracksFootprint(t *testing.T) {
	ix, placer := setup()

	e, err := placer.Place("drill", core.C(5, 5), placement.Size{W: 2, H: 2})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	for _, c := range e.Footprint().Slice() {
		got, ok := ix.At(c)
		if !ok || got != e {
			t.Errorf("At(%v) = %v, %v; expected the drill", c, got, ok)
		}
	}
	if ix.Occupied(core.C(4, 5)) {
		t.Error("cell outside the footprint should be free")
	}
	if ix.Cells() != 4 || ix.Len() != 1 {
		t.Errorf("Cells() = %d, Len() = %d; expected 4 and 1", ix.Cells(), ix.Len())
	}

	if err := placer.Remove(e); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ix.Cells() != 0 || ix.Len() != 0 {
		t.Errorf("index should be empty after removal, has %d cells", ix.Cells())
	}
}

func TestIndexRejectsOverlap(t *testing.T) {
	ix, placer := setup()

	first, err := placer.Place("drill", core.C(0, 0), placement.Size{W: 3, H: 3})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	_, err = placer.Place("cable", core.C(1, 1), placement.Size{W: 1, H: 1})
	if !errors.Is(err, ErrDuplicateOccupancy) {
		t.Fatalf("overlapping Place() error = %v, expected ErrDuplicateOccupancy", err)
	}
	if !errors.Is(err, placement.ErrPlacementRejected) {
		t.Errorf("overlapping Place() should be rejected, got %v", err)
	}

	// The rollback must not disturb the existing occupant.
	if got, _ := ix.At(core.C(1, 1)); got != first {
		t.Error("existing occupant lost its cell after a rejected placement")
	}
	if ix.Cells() != 9 || ix.Len() != 1 {
		t.Errorf("Cells() = %d, Len() = %d; expected 9 and 1", ix.Cells(), ix.Len())
	}
}

func TestIndexPartialOverlapInsertsNothing(t *testing.T) {
	ix, placer := setup()

	if _, err := placer.Place("cable", core.C(2, 0), placement.Size{W: 1, H: 1}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	// 3x1 centred on (1,0) covers (0,0),(1,0),(2,0); only (2,0) collides.
	if _, err := placer.Place("wall", core.C(1, 0), placement.Size{W: 3, H: 1}); err == nil {
		t.Fatal("Place() should fail on partial overlap")
	}
	if ix.Occupied(core.C(0, 0)) || ix.Occupied(core.C(1, 0)) {
		t.Error("free cells of a rejected footprint must not be recorded")
	}
}

func TestReleaseUnknownEntityIsNoop(t *testing.T) {
	bus := placement.NewBus(nil)
	ix := New()
	ix.Attach(bus)
	placer := placement.NewPlacer(bus, nil)

	kept, _ := placer.Place("cable", core.C(0, 0), placement.Size{W: 1, H: 1})

	// An independent bus produces an entity the index never saw.
	otherBus := placement.NewBus(nil)
	var stranger *placement.Entity
	otherBus.Subscribe(events.Create, events.Phase1, func(e *placement.Entity) error {
		stranger = e
		return nil
	})
	placement.NewPlacer(otherBus, nil).Place("cable", core.C(0, 0), placement.Size{W: 1, H: 1})

	if err := ix.Release(stranger); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if got, _ := ix.At(core.C(0, 0)); got != kept || ix.Len() != 1 {
		t.Error("releasing an unknown entity must not clear someone else's cell")
	}
}

func TestAnyOccupied(t *testing.T) {
	ix, placer := setup()
	placer.Place("cable", core.C(3, 3), placement.Size{W: 1, H: 1})

	if !ix.AnyOccupied([]core.Coord{core.C(0, 0), core.C(3, 3)}) {
		t.Error("AnyOccupied should find (3,3)")
	}
	if ix.AnyOccupied([]core.Coord{core.C(0, 0), core.C(3, 4)}) {
		t.Error("AnyOccupied should report free cells as free")
	}
}

func TestInsertSameEntityTwice(t *testing.T) {
	ix, placer := setup()

	e, err := placer.Place("drill", core.C(5, 5), placement.Size{W: 2, H: 2})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if err := ix.Insert(e); err != nil {
		t.Fatalf("Insert() again error = %v, expected nil", err)
	}
	if ix.Cells() != 4 || ix.Len() != 1 {
		t.Errorf("Cells() = %d, Len() = %d; expected 4 and 1", ix.Cells(), ix.Len())
	}

	if err := placer.Remove(e); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ix.Cells() != 0 || ix.Len() != 0 {
		t.Errorf("after Remove: Cells() = %d, Len() = %d; expected 0 and 0", ix.Cells(), ix.Len())
	}
}
