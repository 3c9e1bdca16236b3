package colony

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/occupancy"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/storage"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// newTestColony builds a 10x10 grass map with a 2x2 coal patch at x 1..2, y 1..2.
func newTestColony(t *testing.T, money float64, opts Options) *Colony {
	t.Helper()

	terrain := tiles.NewMap(10, 10, tiles.Grass)
	for _, c := range []core.Coord{core.C(1, 1), core.C(2, 1), core.C(1, 2), core.C(2, 2)} {
		terrain.Set(c, tiles.Coal)
	}

	catalog, err := blueprint.NewCatalog(
		blueprint.Blueprint{
			ID: "cable", Kind: blueprint.Cable, Size: placement.Size{W: 1, H: 1},
			Cost: map[ledger.Kind]float64{ledger.Money: 5},
		},
		blueprint.Blueprint{
			ID: "mine", Kind: blueprint.Building, Size: placement.Size{W: 2, H: 2},
			Cost:      map[ledger.Kind]float64{ledger.Money: 100},
			Income:    map[ledger.Kind]float64{"coal": 1},
			Placeable: []tiles.Type{tiles.Coal},
		},
		blueprint.Blueprint{
			ID: "plant", Kind: blueprint.Building, Size: placement.Size{W: 1, H: 1},
			Cost:      map[ledger.Kind]float64{ledger.Money: 50},
			Income:    map[ledger.Kind]float64{ledger.Money: 2},
			Placeable: []tiles.Type{tiles.Grass},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	c, err := New(terrain, catalog, ledger.New(map[ledger.Kind]float64{ledger.Money: money}), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func buy(t *testing.T, c *Colony, id string, at core.Coord) *placement.Entity {
	t.Helper()
	if err := c.Buyer().Select(id); err != nil {
		t.Fatalf("Select(%s) error = %v", id, err)
	}
	e, err := c.Buyer().PlaceAt(at)
	if err != nil {
		t.Fatalf("PlaceAt(%v) error = %v", at, err)
	}
	return e
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(nil, nil, nil, Options{}); err == nil {
		t.Error("New() without collaborators should fail")
	}
}

func TestSessionGenerated(t *testing.T) {
	c := newTestColony(t, 0, Options{})
	if c.Session() == "" {
		t.Error("Session() should be generated when not given")
	}
	named := newTestColony(t, 0, Options{Session: "alice"})
	if named.Session() != "alice" {
		t.Errorf("Session() = %q, expected alice", named.Session())
	}
}

func TestSubscriberCounts(t *testing.T) {
	c := newTestColony(t, 0, Options{})
	bus := c.Bus()
	tests := []struct {
		kind  events.Kind
		phase events.Phase
		want  int
	}{
		{events.Create, events.Phase1, 2},
		{events.Destroy, events.Phase1, 2},
		{events.Create, events.Phase2, 1},
		{events.Destroy, events.Phase2, 1},
	}
	for _, tc := range tests {
		if got := bus.Handlers(tc.kind, tc.phase); got != tc.want {
			t.Errorf("Handlers(%v, %v) = %d, expected %d", tc.kind, tc.phase, got, tc.want)
		}
	}
}

func TestSelectAndCancel(t *testing.T) {
	c := newTestColony(t, 0, Options{})
	b := c.Buyer()

	if b.Mode() != Selecting {
		t.Errorf("initial Mode() = %v, expected selecting", b.Mode())
	}
	if err := b.Select("tower"); !errors.Is(err, ErrUnknownBlueprint) {
		t.Errorf("Select(tower) error = %v, expected ErrUnknownBlueprint", err)
	}
	if b.Mode() != Selecting {
		t.Error("failed Select() should not change mode")
	}

	if err := b.Select("mine"); err != nil {
		t.Fatal(err)
	}
	if bp, ok := b.Selected(); !ok || bp.ID != "mine" {
		t.Errorf("Selected() = %v, %v; expected mine, true", bp.ID, ok)
	}

	b.Cancel()
	if _, ok := b.Selected(); ok || b.Mode() != Selecting {
		t.Error("Cancel() should return to selecting")
	}
}

func TestPlaceAtRequiresSelection(t *testing.T) {
	c := newTestColony(t, 100, Options{})
	if _, err := c.Buyer().PlaceAt(core.C(5, 5)); !errors.Is(err, ErrNotPlacing) {
		t.Errorf("PlaceAt() error = %v, expected ErrNotPlacing", err)
	}
}

func TestPurchase(t *testing.T) {
	c := newTestColony(t, 200, Options{})

	mine := buy(t, c, "mine", core.C(1, 2))

	if got := c.Ledger().Get(ledger.Money); got != 100 {
		t.Errorf("money = %v, expected 100", got)
	}
	if c.Buyer().Mode() != Selecting {
		t.Error("a purchase should return the player to selecting")
	}
	if mine.State() != placement.Active {
		t.Errorf("State() = %v, expected active", mine.State())
	}
	for _, cell := range []core.Coord{core.C(1, 1), core.C(2, 1), core.C(1, 2), core.C(2, 2)} {
		if e, ok := c.At(cell); !ok || e != mine {
			t.Errorf("At(%v) should be the mine", cell)
		}
	}
	if len(c.Structures()) != 1 {
		t.Errorf("Structures() has %d entries, expected 1", len(c.Structures()))
	}
	if !c.Grid().Contains(mine) {
		t.Error("the power grid should contain the mine")
	}
}

func TestPurchaseChecksEveryFootprintTile(t *testing.T) {
	tests := []struct {
		name   string
		anchor core.Coord
	}{
		{"all grass", core.C(6, 6)},
		{"partly on coal", core.C(2, 2)},
		{"partly off the map", core.C(9, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestColony(t, 200, Options{})
			c.Buyer().Select("mine")

			_, err := c.Buyer().PlaceAt(tc.anchor)
			if !errors.Is(err, ErrNotPlaceable) {
				t.Fatalf("PlaceAt(%v) error = %v, expected ErrNotPlaceable", tc.anchor, err)
			}
			if c.Ledger().Get(ledger.Money) != 200 {
				t.Error("a refused placement must not charge")
			}
			if c.Buyer().Mode() != Placing {
				t.Error("a refused placement keeps the player placing")
			}
			if len(c.Structures()) != 0 {
				t.Error("nothing should be placed")
			}
		})
	}
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	c := newTestColony(t, 99, Options{})
	c.Buyer().Select("mine")

	_, err := c.Buyer().PlaceAt(core.C(1, 2))
	if !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("PlaceAt() error = %v, expected ErrInsufficient", err)
	}
	if c.Ledger().Get(ledger.Money) != 99 {
		t.Error("balance should be unchanged")
	}
}

func TestOverlapIsRolledBackAndRefunded(t *testing.T) {
	c := newTestColony(t, 100, Options{})
	first := buy(t, c, "cable", core.C(5, 5))

	c.Buyer().Select("cable")
	_, err := c.Buyer().PlaceAt(core.C(5, 5))
	if !errors.Is(err, placement.ErrPlacementRejected) {
		t.Fatalf("PlaceAt() error = %v, expected ErrPlacementRejected", err)
	}
	if !errors.Is(err, occupancy.ErrDuplicateOccupancy) {
		t.Errorf("PlaceAt() error = %v, expected ErrDuplicateOccupancy inside", err)
	}

	if got := c.Ledger().Get(ledger.Money); got != 95 {
		t.Errorf("money = %v, expected 95 after refund", got)
	}
	if e, _ := c.At(core.C(5, 5)); e != first {
		t.Error("the first cable must keep its cell")
	}
	if len(c.Structures()) != 1 || c.Grid().Len() != 1 {
		t.Errorf("structures = %d, grid = %d; expected 1 and 1", len(c.Structures()), c.Grid().Len())
	}
}

func TestPlaceAtPoint(t *testing.T) {
	c := newTestColony(t, 100, Options{})
	c.Terrain().Layout = tiles.Layout{OriginX: 0, OriginY: 0, CellW: 2, CellH: 1}

	c.Buyer().Select("cable")
	e, err := c.Buyer().PlaceAtPoint(tiles.Point{X: 10.5, Y: 5.2})
	if err != nil {
		t.Fatalf("PlaceAtPoint() error = %v", err)
	}
	if e.Anchor() != core.C(5, 5) {
		t.Errorf("Anchor() = %v, expected (5,5)", e.Anchor())
	}

	c.Buyer().Select("cable")
	if _, err := c.Buyer().PlaceAtPoint(tiles.Point{X: -3, Y: 0}); !errors.Is(err, ErrNotPlaceable) {
		t.Errorf("PlaceAtPoint() off the map error = %v, expected ErrNotPlaceable", err)
	}
}

func TestPreview(t *testing.T) {
	c := newTestColony(t, 200, Options{})

	if _, err := c.Buyer().Preview(core.C(0, 0)); !errors.Is(err, ErrNotPlacing) {
		t.Errorf("Preview() while selecting error = %v", err)
	}

	c.Buyer().Select("mine")
	p, err := c.Buyer().Preview(core.C(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Valid() {
		t.Errorf("preview on coal should be valid, got %v", p.Err)
	}
	if p.Footprint.Len() != 4 || p.Border.Len() != 8 {
		t.Errorf("preview cells = %d/%d, expected 4/8", p.Footprint.Len(), p.Border.Len())
	}

	p, _ = c.Buyer().Preview(core.C(6, 6))
	if p.Valid() {
		t.Error("preview on grass should be invalid for a mine")
	}

	buy(t, c, "mine", core.C(1, 2))
	c.Buyer().Select("cable")
	p, _ = c.Buyer().Preview(core.C(1, 1))
	if !errors.Is(p.Err, ErrNotPlaceable) {
		t.Errorf("preview over a structure error = %v, expected ErrNotPlaceable", p.Err)
	}
	if c.Ledger().Get(ledger.Money) != 100 {
		t.Error("Preview() must not charge")
	}
}

func TestStepIncome(t *testing.T) {
	c := newTestColony(t, 250, Options{})
	buy(t, c, "plant", core.C(5, 5))
	buy(t, c, "mine", core.C(1, 2))

	rate := c.IncomeRate()
	if rate[ledger.Money] != 2 || rate["coal"] != 1 {
		t.Errorf("IncomeRate() = %v", rate)
	}

	c.Step(1.5)
	c.Step(0)
	c.Step(-1)

	if got := c.Ledger().Get(ledger.Money); got != 103 {
		t.Errorf("money = %v, expected 103", got)
	}
	if got := c.Ledger().Get("coal"); got != 1.5 {
		t.Errorf("coal = %v, expected 1.5", got)
	}
	if c.Elapsed() != 1.5 {
		t.Errorf("Elapsed() = %v, expected 1.5", c.Elapsed())
	}
}

func TestDemolish(t *testing.T) {
	c := newTestColony(t, 100, Options{})
	plant := buy(t, c, "plant", core.C(4, 4))

	if err := c.Buyer().Demolish(core.C(4, 4)); err != nil {
		t.Fatalf("Demolish() error = %v", err)
	}
	if plant.State() != placement.Destroyed {
		t.Errorf("State() = %v, expected destroyed", plant.State())
	}
	if _, ok := c.At(core.C(4, 4)); ok {
		t.Error("cell should be free")
	}
	if len(c.Structures()) != 0 || c.Grid().Len() != 0 {
		t.Error("demolished structure should leave every index")
	}
	if got := c.Ledger().Get(ledger.Money); got != 75 {
		t.Errorf("money = %v, expected 75 after half refund", got)
	}

	if err := c.Buyer().Demolish(core.C(4, 4)); !errors.Is(err, ErrNothingHere) {
		t.Errorf("Demolish() on empty tile error = %v, expected ErrNothingHere", err)
	}
}

func TestColonyString(t *testing.T) {
	c := newTestColony(t, 100, Options{Session: "s1"})
	buy(t, c, "mine", core.C(1, 2))
	c.Step(2)

	got := c.String()
	for _, want := range []string{"colony s1 after 2s", "1 structures on 4 tiles", "1 networks", "money 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, expected it to contain %q", got, want)
		}
	}
}

func TestDemolishWithFaultsWarns(t *testing.T) {
	var out bytes.Buffer
	c := newTestColony(t, 100, Options{Logger: log.New(&out)})
	plant := buy(t, c, "plant", core.C(4, 4))

	stuck := errors.New("observer failed")
	c.Bus().Subscribe(events.Destroy, events.Phase2, func(*placement.Entity) error {
		return stuck
	})
	out.Reset()

	err := c.Buyer().Demolish(core.C(4, 4))
	if !errors.Is(err, stuck) {
		t.Fatalf("Demolish() error = %v, expected the handler fault", err)
	}
	if plant.State() != placement.Destroyed {
		t.Errorf("State() = %v, expected destroyed", plant.State())
	}
	if got := c.Ledger().Get(ledger.Money); got != 75 {
		t.Errorf("money = %v, expected 75 after half refund", got)
	}

	logged := out.String()
	if !strings.Contains(logged, "WARN") || !strings.Contains(logged, "demolished with faults") {
		t.Errorf("log = %q, expected a warning about the faults", logged)
	}
	if strings.Contains(logged, "INFO") {
		t.Errorf("log = %q, expected no info line for a faulted demolish", logged)
	}
}

func TestNetworks(t *testing.T) {
	c := newTestColony(t, 500, Options{})
	buy(t, c, "plant", core.C(5, 5))
	buy(t, c, "cable", core.C(6, 5))
	buy(t, c, "cable", core.C(7, 5))
	buy(t, c, "cable", core.C(0, 9))

	nets := c.Networks()
	if len(nets) != 2 {
		t.Fatalf("Networks() = %d, expected 2", len(nets))
	}
	if nets[0].Size != 3 || nets[0].Tags["cable"] != 2 || nets[0].Tags["plant"] != 1 {
		t.Errorf("largest network = %+v", nets[0])
	}
	if nets[1].Size != 1 {
		t.Errorf("second network size = %d, expected 1", nets[1].Size)
	}

	// Removing the middle cable splits the line.
	if err := c.Buyer().Demolish(core.C(6, 5)); err != nil {
		t.Fatal(err)
	}
	if got := len(c.Networks()); got != 3 {
		t.Errorf("Networks() after split = %d, expected 3", got)
	}
}

func TestJournalObservesColony(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	c := newTestColony(t, 100, Options{Session: "s1", Journal: store})
	buy(t, c, "cable", core.C(1, 1))
	c.Buyer().Select("cable")
	if _, err := c.Buyer().PlaceAt(core.C(1, 1)); !errors.Is(err, placement.ErrPlacementRejected) {
		t.Fatalf("PlaceAt() on a taken tile = %v, expected ErrPlacementRejected", err)
	}
	if err := c.Buyer().Demolish(core.C(1, 1)); err != nil {
		t.Fatal(err)
	}

	rows, err := store.SessionHistory("s1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"create", "destroy"}
	if len(rows) != len(want) {
		t.Fatalf("journal has %d rows, expected %d", len(rows), len(want))
	}
	for i, ev := range want {
		if rows[i].Event != ev {
			t.Errorf("row %d event = %s, expected %s", i, rows[i].Event, ev)
		}
	}

	counts, err := store.CountsByTag()
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Created != 1 || counts[0].Destroyed != 1 {
		t.Errorf("CountsByTag() = %+v, expected one cable built and demolished", counts)
	}
}
