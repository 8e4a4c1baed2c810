package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/grid"
)

// RoomCarveStep places non-overlapping rectangular rooms, carves them into
// the grid, and joins consecutive rooms with L-shaped halls. It populates
// the room plan later steps read.
type RoomCarveStep struct {
	RoomCount  [2]int // Inclusive range of rooms to place
	RoomWidth  [2]int
	RoomHeight [2]int
}

// Name identifies the step in logs.
func (s RoomCarveStep) Name() string { return "room_carve" }

// Band returns the layout band.
func (s RoomCarveStep) Band() Band { return BandLayout }

// Apply carves rooms and halls.
func (s RoomCarveStep) Apply(ctx *Context) error {
	if s.RoomCount[0] < 1 || s.RoomWidth[0] < 1 || s.RoomHeight[0] < 1 {
		return fmt.Errorf("room carve config invalid: count %v size %vx%v", s.RoomCount, s.RoomWidth, s.RoomHeight)
	}

	count := ctx.Rand.Range(s.RoomCount[0], s.RoomCount[1])
	g := ctx.Grid

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			w := ctx.Rand.Range(s.RoomWidth[0], s.RoomWidth[1])
			h := ctx.Rand.Range(s.RoomHeight[0], s.RoomHeight[1])
			if w+2 > g.Width() || h+2 > g.Height() {
				continue
			}

			// Leave a one-tile wall ring at the floor edge.
			x := ctx.Rand.Range(1, g.Width()-w-1)
			y := ctx.Rand.Range(1, g.Height()-h-1)
			bounds := grid.Rect{X: x, Y: y, W: w, H: h}

			if s.overlapsExisting(ctx.Plan, bounds) {
				continue
			}

			room := ctx.Plan.AddRoom(bounds)
			carveRoom(g, room)
			break
		}
	}

	if len(ctx.Plan.Rooms) == 0 {
		return placementFailed(s.Name(), "no rooms placed after %d attempts each", MaxPlacementAttempts)
	}

	// Join consecutive rooms so the floor is one connected component.
	for i := 1; i < len(ctx.Plan.Rooms); i++ {
		carveHall(g, ctx.Plan.Rooms[i-1].Center(), ctx.Plan.Rooms[i].Center())
		ctx.Plan.Connect(ctx.Plan.Rooms[i-1].ID, ctx.Plan.Rooms[i].ID)
	}
	return nil
}

// overlapsExisting checks the candidate against every placed room with a
// one-tile margin so rooms never share walls.
func (s RoomCarveStep) overlapsExisting(plan *RoomPlan, bounds grid.Rect) bool {
	expanded := grid.Rect{X: bounds.X - 1, Y: bounds.Y - 1, W: bounds.W + 2, H: bounds.H + 2}
	for _, room := range plan.Rooms {
		if expanded.Overlaps(room.Bounds) {
			return true
		}
	}
	return false
}

func carveRoom(g *grid.Grid, room *Room) {
	for y := room.Bounds.Y; y < room.Bounds.Y+room.Bounds.H; y++ {
		for x := room.Bounds.X; x < room.Bounds.X+room.Bounds.W; x++ {
			g.SetTerrain(x, y, g.RoomTerrain())
			g.SetRoomID(x, y, room.ID)
		}
	}
}

// carveHall digs an L-shaped corridor between two points: horizontal leg
// first, then vertical. Only wall tiles are opened; room interiors along
// the way are left untouched.
func carveHall(g *grid.Grid, from, to grid.Point) {
	x, y := from.X, from.Y
	for x != to.X {
		if x < to.X {
			x++
		} else {
			x--
		}
		carveHallTile(g, x, y)
	}
	for y != to.Y {
		if y < to.Y {
			y++
		} else {
			y--
		}
		carveHallTile(g, x, y)
	}
}

func carveHallTile(g *grid.Grid, x, y int) {
	if g.Terrain(x, y) == grid.TerrainWall {
		g.SetTerrain(x, y, g.RoomTerrain())
	}
}
