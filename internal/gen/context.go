// Package gen is the per-floor generation engine: a mutable floor context
// drained through an ordered, priority-banded queue of generation steps.
package gen

import (
	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/rng"
	"github.com/greyhollow/delve/internal/spawn"
)

// SpawnedTeam is a team placed in a room of the floor.
type SpawnedTeam struct {
	Team   *spawn.Team
	RoomID int
}

// PlacedItem is an item descriptor placed at a tile.
type PlacedItem struct {
	Item spawn.Descriptor
	X, Y int
}

// ContextConfig carries everything needed to build a fresh floor context.
// Spawn tables are templates: the context clones them, so steps can edit
// their copies without touching authored data.
type ContextConfig struct {
	ZoneID    string
	Segment   int
	Floor     int
	Seed      int64
	Width     int
	Height    int
	MobTable  *spawn.Table
	ItemTable *spawn.Table
	Themes    map[string]*spawn.Table
	Catalog   catalog.Catalog
	Factory   spawn.EntityFactory
}

// Context is the mutable state for one floor's generation. It is created
// fresh per request, mutated by the step queue, and finalized read-only on
// completion; it is never reused between requests.
type Context struct {
	ZoneID  string
	Segment int
	Floor   int
	Seed    int64

	Grid *grid.Grid
	Rand *rng.Source
	Plan *RoomPlan

	MobTable  *spawn.Table
	ItemTable *spawn.Table
	Themes    map[string]*spawn.Table

	Catalog catalog.Catalog
	Factory spawn.EntityFactory

	Teams []SpawnedTeam
	Items []PlacedItem

	finalized bool
}

// NewContext builds a floor context from the config. The random source is
// seeded with cfg.Seed; two contexts with the same config generate
// identical floors.
func NewContext(cfg ContextConfig) *Context {
	themes := make(map[string]*spawn.Table, len(cfg.Themes))
	for name, table := range cfg.Themes {
		themes[name] = table.Clone()
	}

	return &Context{
		ZoneID:    cfg.ZoneID,
		Segment:   cfg.Segment,
		Floor:     cfg.Floor,
		Seed:      cfg.Seed,
		Grid:      grid.New(cfg.Width, cfg.Height),
		Rand:      rng.New(cfg.Seed),
		Plan:      &RoomPlan{},
		MobTable:  cfg.MobTable.Clone(),
		ItemTable: cfg.ItemTable.Clone(),
		Themes:    themes,
		Catalog:   cfg.Catalog,
		Factory:   cfg.Factory,
	}
}

// Finalize marks the context complete. A finalized context must not be
// drained again.
func (c *Context) Finalize() { c.finalized = true }

// Finalized reports whether generation has completed for this context.
func (c *Context) Finalized() bool { return c.finalized }
