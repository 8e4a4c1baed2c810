package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/spawn"
)

// SealedRoomStep turns one room into a locked vault chamber: the room is
// marked sealed, its perimeter walls become sealed terrain, and vault loot
// drawn from the item table is placed inside. Zone orchestration injects
// one of these per floor of a spread vault.
type SealedRoomStep struct {
	VaultPart int    // 0-based position of this floor within the spread vault
	ItemCount [2]int // Inclusive range of loot items inside
}

// Name identifies the step in logs.
func (s SealedRoomStep) Name() string { return "sealed_room" }

// Band returns the features band.
func (s SealedRoomStep) Band() Band { return BandFeatures }

// Apply seals a room and fills it with loot.
func (s SealedRoomStep) Apply(ctx *Context) error {
	room := ctx.Plan.RandomRoom(ctx.Rand, func(r *Room) bool {
		return !r.Sealed && !r.MonsterHouse && r.Kind == RoomNormal
	})
	if room == nil {
		return placementFailed(s.Name(), "no eligible room for vault part %d", s.VaultPart)
	}

	room.Sealed = true
	sealPerimeter(ctx.Grid, room.Bounds)

	count := ctx.Rand.Range(s.ItemCount[0], s.ItemCount[1])
	if count == 0 {
		return nil
	}

	flat, err := spawn.Flatten(ctx.ItemTable, ctx.Themes)
	if err != nil {
		return fmt.Errorf("vault item table: %w", err)
	}
	items, err := spawn.Resolve(flat, count, nil, ctx.Rand)
	if err != nil {
		return fmt.Errorf("vault item table: %w", err)
	}

	for _, item := range items {
		x := ctx.Rand.Range(room.Bounds.X, room.Bounds.X+room.Bounds.W-1)
		y := ctx.Rand.Range(room.Bounds.Y, room.Bounds.Y+room.Bounds.H-1)
		ctx.Items = append(ctx.Items, PlacedItem{Item: item, X: x, Y: y})
	}
	return nil
}

// sealPerimeter converts the wall ring around the room to sealed terrain.
// Hall openings into the room are sealed too: the vault stays shut until
// the runtime unlocks it.
func sealPerimeter(g *grid.Grid, bounds grid.Rect) {
	for x := bounds.X - 1; x <= bounds.X+bounds.W; x++ {
		sealTile(g, x, bounds.Y-1, bounds)
		sealTile(g, x, bounds.Y+bounds.H, bounds)
	}
	for y := bounds.Y; y < bounds.Y+bounds.H; y++ {
		sealTile(g, bounds.X-1, y, bounds)
		sealTile(g, bounds.X+bounds.W, y, bounds)
	}
}

func sealTile(g *grid.Grid, x, y int, bounds grid.Rect) {
	if !g.InBounds(x, y) {
		return
	}
	// Tiles inside another room stay as they are.
	if g.RoomID(x, y) != grid.NoRoom {
		return
	}
	g.SetTerrain(x, y, grid.TerrainSealed)
}
