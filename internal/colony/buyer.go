package colony

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

var (
	// ErrNotPlacing is returned by PlaceAt when no blueprint is selected.
	ErrNotPlacing = errors.New("colony: no blueprint selected")
	// ErrNotPlaceable is returned when a footprint cell is off the map or on
	// a tile the blueprint cannot stand on.
	ErrNotPlaceable = errors.New("colony: cannot place here")
	// ErrNothingHere is returned by Demolish on an empty tile.
	ErrNothingHere = errors.New("colony: no structure here")
	// ErrUnknownBlueprint is returned when selecting an ID not in the catalog.
	ErrUnknownBlueprint = blueprint.ErrUnknown
)

// DemolishRefund is the share of a structure's cost returned on demolition.
const DemolishRefund = 0.5

// Mode is the player's interaction state.
type Mode int

const (
	Selecting Mode = iota
	Placing
)

func (m Mode) String() string {
	if m == Placing {
		return "placing"
	}
	return "selecting"
}

// Buyer turns player intent into placements: choose a blueprint, then click
// a tile. A successful purchase returns the player to Selecting.
type Buyer struct {
	colony   *Colony
	mode     Mode
	selected blueprint.Blueprint
}

// Mode returns the current interaction state.
func (b *Buyer) Mode() Mode { return b.mode }

// Selected returns the blueprint being placed. The second result is false
// while Selecting.
func (b *Buyer) Selected() (blueprint.Blueprint, bool) {
	return b.selected, b.mode == Placing
}

// Select enters Placing with the given blueprint.
func (b *Buyer) Select(id string) error {
	bp, err := b.colony.catalog.Get(id)
	if err != nil {
		return err
	}
	b.selected = bp
	b.mode = Placing
	return nil
}

// Cancel returns to Selecting.
func (b *Buyer) Cancel() {
	b.selected = blueprint.Blueprint{}
	b.mode = Selecting
}

// Preview is the would-be placement of the selected blueprint at an anchor.
type Preview struct {
	Anchor    core.Coord
	Footprint placement.CellSet
	Border    placement.CellSet
	Err       error // nil when PlaceAt would be attempted
}

// Valid reports whether the preview passed terrain and funds checks.
func (p Preview) Valid() bool { return p.Err == nil }

// Preview computes the cells of the selected blueprint at anchor and checks
// terrain, occupancy and funds without changing anything.
func (b *Buyer) Preview(anchor core.Coord) (Preview, error) {
	if b.mode != Placing {
		return Preview{}, ErrNotPlacing
	}
	fp, border, err := placement.Compute(anchor, b.selected.Size)
	if err != nil {
		return Preview{}, err
	}
	p := Preview{Anchor: anchor, Footprint: fp, Border: border}
	p.Err = b.check(b.selected, fp)
	if p.Err == nil && b.colony.occ.AnyOccupied(fp.Slice()) {
		p.Err = fmt.Errorf("%w: overlaps a structure", ErrNotPlaceable)
	}
	return p, nil
}

// check verifies terrain under every footprint cell and affordability.
func (b *Buyer) check(bp blueprint.Blueprint, fp placement.CellSet) error {
	var bad error
	fp.Each(func(c core.Coord) {
		if bad != nil {
			return
		}
		if t := b.colony.terrain.TypeAt(c); !bp.CanStandOn(t) {
			bad = fmt.Errorf("%w: %s cannot stand on %s at %v", ErrNotPlaceable, bp.ID, t, c)
		}
	})
	if bad != nil {
		return bad
	}
	return b.affordable(bp.Cost)
}

func (b *Buyer) affordable(cost map[ledger.Kind]float64) error {
	for _, k := range sortedKinds(cost) {
		if have := b.colony.wallet.Get(k); have < cost[k] {
			return fmt.Errorf("%w: %s %.0f < %.0f", ledger.ErrInsufficient, k, have, cost[k])
		}
	}
	return nil
}

// PlaceAt buys the selected blueprint anchored at tile anchor.
//
// The cost is taken before the placement is published and refunded if the
// placement is rejected (for example by the occupancy index).
func (b *Buyer) PlaceAt(anchor core.Coord) (*placement.Entity, error) {
	if b.mode != Placing {
		return nil, ErrNotPlacing
	}
	bp := b.selected
	c := b.colony

	fp, _, err := placement.Compute(anchor, bp.Size)
	if err != nil {
		return nil, err
	}
	if err := b.check(bp, fp); err != nil {
		return nil, err
	}

	kinds := sortedKinds(bp.Cost)
	for i, k := range kinds {
		if err := c.wallet.Spend(k, bp.Cost[k]); err != nil {
			for _, paid := range kinds[:i] {
				c.wallet.Add(paid, bp.Cost[paid])
			}
			return nil, err
		}
	}

	e, err := c.placer.Place(bp.ID, anchor, bp.Size)
	if err != nil {
		for _, k := range kinds {
			c.wallet.Add(k, bp.Cost[k])
		}
		c.logger.Info("purchase refunded", "blueprint", bp.ID, "anchor", anchor, "error", err)
		return nil, err
	}

	c.logger.Info("purchased", "blueprint", bp.ID, "anchor", anchor, "entity", e.ID())
	b.Cancel()
	return e, nil
}

// PlaceAtPoint buys the selected blueprint under a world position.
func (b *Buyer) PlaceAtPoint(p tiles.Point) (*placement.Entity, error) {
	if b.mode != Placing {
		return nil, ErrNotPlacing
	}
	anchor, ok := b.colony.terrain.WorldToTile(p)
	if !ok {
		return nil, fmt.Errorf("%w: (%.1f,%.1f) is off the map", ErrNotPlaceable, p.X, p.Y)
	}
	return b.PlaceAt(anchor)
}

// Demolish removes the structure covering tile t and refunds part of its cost.
func (b *Buyer) Demolish(t core.Coord) error {
	c := b.colony
	e, ok := c.occ.At(t)
	if !ok {
		return fmt.Errorf("%w at %v", ErrNothingHere, t)
	}

	err := c.placer.Remove(e)
	if bp, gerr := c.catalog.Get(e.Tag()); gerr == nil {
		for k, v := range bp.Cost {
			c.wallet.Add(k, v*DemolishRefund)
		}
	}
	if err != nil {
		c.logger.Warn("demolished with faults", "blueprint", e.Tag(), "anchor", e.Anchor(), "entity", e.ID(), "error", err)
		return err
	}
	c.logger.Info("demolished", "blueprint", e.Tag(), "anchor", e.Anchor(), "entity", e.ID())
	return nil
}

func sortedKinds(m map[ledger.Kind]float64) []ledger.Kind {
	out := make([]ledger.Kind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
