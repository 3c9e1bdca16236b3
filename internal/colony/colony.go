// Package colony assembles one playable session: the event bus and its
// subscribers, the terrain, the blueprint catalog and the resource ledger.
//
// Subscribers are registered in a fixed order during New:
//
//	Phase1: occupancy index, power grid
//	Phase2: structure tracker, journal (optional)
//
// Nothing subscribes after New returns.
package colony

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/occupancy"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/powergrid"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// Journal receives Phase2 lifecycle events for analytics. accepted reports
// whether a create was taken by the occupancy index.
type Journal interface {
	Attach(bus *placement.Bus, session string, logger *log.Logger, accepted func(*placement.Entity) bool)
}

// Options configures a colony.
type Options struct {
	Session string // generated when empty
	Logger  *log.Logger
	Journal Journal
}

// Colony is a single session's world.
type Colony struct {
	session string
	logger  *log.Logger

	bus     *placement.Bus
	placer  *placement.Placer
	occ     *occupancy.Index
	grid    *powergrid.Graph
	wallet  *ledger.Ledger
	terrain *tiles.Map
	catalog *blueprint.Catalog

	structures []*placement.Entity
	buyer      *Buyer
	elapsed    float64
}

// New wires a colony together.
func New(terrain *tiles.Map, catalog *blueprint.Catalog, wallet *ledger.Ledger, opts Options) (*Colony, error) {
	if terrain == nil || catalog == nil || wallet == nil {
		return nil, errors.New("colony: terrain, catalog and ledger are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	logger = logger.With("session", session)

	c := &Colony{
		session: session,
		logger:  logger,
		bus:     placement.NewBus(logger),
		occ:     occupancy.New(),
		wallet:  wallet,
		terrain: terrain,
		catalog: catalog,
	}
	c.placer = placement.NewPlacer(c.bus, logger)
	c.grid = powergrid.New(func(e *placement.Entity) bool {
		return catalog.Exists(e.Tag())
	})

	c.occ.Attach(c.bus)
	c.grid.Attach(c.bus)
	c.bus.Subscribe(events.Create, events.Phase2, c.track)
	c.bus.Subscribe(events.Destroy, events.Phase2, c.untrack)
	if opts.Journal != nil {
		opts.Journal.Attach(c.bus, session, logger, c.accepted)
	}

	c.buyer = &Buyer{colony: c}
	logger.Debug("colony ready",
		"create_phase1", c.bus.Handlers(events.Create, events.Phase1),
		"create_phase2", c.bus.Handlers(events.Create, events.Phase2),
		"destroy_phase1", c.bus.Handlers(events.Destroy, events.Phase1),
		"destroy_phase2", c.bus.Handlers(events.Destroy, events.Phase2),
	)
	return c, nil
}

// accepted reports whether the occupancy index holds e.
func (c *Colony) accepted(e *placement.Entity) bool {
	owner, ok := c.occ.At(e.Anchor())
	return ok && owner == e
}

// track records a structure once the Phase1 indices hold it. A create that
// the occupancy index rejected is skipped; its rollback destroy follows.
func (c *Colony) track(e *placement.Entity) error {
	if !c.accepted(e) {
		return nil
	}
	c.structures = append(c.structures, e)
	return nil
}

func (c *Colony) untrack(e *placement.Entity) error {
	for i, s := range c.structures {
		if s == e {
			c.structures = append(c.structures[:i], c.structures[i+1:]...)
			return nil
		}
	}
	return nil
}

// Session returns the session ID.
func (c *Colony) Session() string { return c.session }

// Bus returns the lifecycle bus.
func (c *Colony) Bus() *placement.Bus { return c.bus }

// Ledger returns the resource balances.
func (c *Colony) Ledger() *ledger.Ledger { return c.wallet }

// Terrain returns the tile map.
func (c *Colony) Terrain() *tiles.Map { return c.terrain }

// Catalog returns the blueprint catalog.
func (c *Colony) Catalog() *blueprint.Catalog { return c.catalog }

// Grid returns the power grid.
func (c *Colony) Grid() *powergrid.Graph { return c.grid }

// Buyer returns the colony's purchase flow.
func (c *Colony) Buyer() *Buyer { return c.buyer }

// Elapsed returns the simulated seconds so far.
func (c *Colony) Elapsed() float64 { return c.elapsed }

// Structures returns the standing structures in placement order.
func (c *Colony) Structures() []*placement.Entity {
	out := make([]*placement.Entity, len(c.structures))
	copy(out, c.structures)
	return out
}

// At returns the structure covering tile t.
func (c *Colony) At(t core.Coord) (*placement.Entity, bool) {
	return c.occ.At(t)
}

// Blueprint returns the blueprint a structure was built from.
func (c *Colony) Blueprint(e *placement.Entity) (blueprint.Blueprint, error) {
	return c.catalog.Get(e.Tag())
}

// IncomeRate returns the combined per-second income of all structures.
func (c *Colony) IncomeRate() map[ledger.Kind]float64 {
	rate := make(map[ledger.Kind]float64)
	for _, s := range c.structures {
		bp, err := c.catalog.Get(s.Tag())
		if err != nil {
			continue
		}
		for k, v := range bp.Income {
			rate[k] += v
		}
	}
	return rate
}

// Step advances the economy by dt seconds.
func (c *Colony) Step(dt float64) {
	if dt <= 0 {
		return
	}
	c.elapsed += dt
	for k, v := range c.IncomeRate() {
		c.wallet.Add(k, v*dt)
	}
}

// NetworkSummary describes one connected group of structures.
type NetworkSummary struct {
	Size int
	Tags map[string]int
}

// Networks summarises the power grid, largest first.
func (c *Colony) Networks() []NetworkSummary {
	nets := c.grid.Networks()
	out := make([]NetworkSummary, len(nets))
	for i, n := range nets {
		out[i] = NetworkSummary{Size: len(n.Members), Tags: n.Tags()}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}

// String returns a one-line status summary.
func (c *Colony) String() string {
	return fmt.Sprintf("colony %s after %.0fs: %d structures on %d tiles, %d networks, money %.0f",
		c.session, c.elapsed, len(c.structures), c.occ.Cells(), len(c.grid.Networks()), c.wallet.Get(ledger.Money))
}
