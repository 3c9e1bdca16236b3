// Package blueprint holds the catalog of structures a player can buy.
// A blueprint describes what gets placed: its footprint size, which tiles it
// may stand on, what it costs and what it produces each second.
package blueprint

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/placement"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// ErrUnknown is returned when a blueprint ID is not in the catalog.
var ErrUnknown = errors.New("blueprint: unknown blueprint")

// Kind separates producing buildings from cables that only carry power.
type Kind string

const (
	Building Kind = "building"
	Cable    Kind = "cable"
)

// Blueprint describes one purchasable structure.
type Blueprint struct {
	ID        string
	Name      string
	Kind      Kind
	Size      placement.Size
	Cost      map[ledger.Kind]float64
	Income    map[ledger.Kind]float64 // per second while the structure stands
	Placeable []tiles.Type            // empty means any tile on the map
	Glyph     rune
	Color     core.Color
}

// Validate checks the blueprint is usable.
func (b Blueprint) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("blueprint: empty id")
	}
	if b.Kind != Building && b.Kind != Cable {
		return fmt.Errorf("blueprint %q: unknown kind %q", b.ID, b.Kind)
	}
	if err := b.Size.Validate(); err != nil {
		return fmt.Errorf("blueprint %q: %w", b.ID, err)
	}
	for k, v := range b.Cost {
		if v < 0 {
			return fmt.Errorf("blueprint %q: negative cost for %s", b.ID, k)
		}
	}
	return nil
}

// CanStandOn reports whether the blueprint may be placed on tile type t.
func (b Blueprint) CanStandOn(t tiles.Type) bool {
	if t == tiles.None {
		return false
	}
	if len(b.Placeable) == 0 {
		return true
	}
	return slices.Contains(b.Placeable, t)
}

// Catalog is a set of blueprints keyed by ID. Safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]Blueprint
}

// NewCatalog creates a catalog from the given blueprints.
func NewCatalog(items ...Blueprint) (*Catalog, error) {
	c := &Catalog{items: make(map[string]Blueprint, len(items))}
	for _, b := range items {
		if err := c.Register(b); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a blueprint. Duplicate IDs are rejected.
func (c *Catalog) Register(b Blueprint) error {
	if err := b.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[b.ID]; exists {
		return fmt.Errorf("blueprint: %q already registered", b.ID)
	}
	c.items[b.ID] = b
	return nil
}

// Get returns the blueprint with the given ID.
func (c *Catalog) Get(id string) (Blueprint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.items[id]
	if !ok {
		return Blueprint{}, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return b, nil
}

// Exists checks if a blueprint with the given ID is registered.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[id]
	return ok
}

// List returns all blueprints sorted by ID.
func (c *Catalog) List() []Blueprint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Blueprint, 0, len(c.items))
	for _, b := range c.items {
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Len returns the number of blueprints.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
