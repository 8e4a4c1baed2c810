// Package grid provides the mutable tile grid that floor generation writes
// into: a terrain layer plus a room-identity layer.
package grid

import "strings"

// NoRoom is the room-identity value for tiles that belong to no room.
const NoRoom = -1

// Point is an (x, y) position on a grid.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle. W and H are the tile counts spanned.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Overlaps returns true if the two rectangles share at least one tile.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Grid is one floor's tile state: a terrain layer and a room-identity
// layer. All mutation during generation goes through SetTerrain/SetRoomID;
// stencil tests only ever read.
type Grid struct {
	width, height int
	terrain       []Terrain
	rooms         []int
	roomTerrain   Terrain
}

// New creates a grid filled with wall terrain and no room identities.
func New(width, height int) *Grid {
	g := &Grid{
		width:       width,
		height:      height,
		terrain:     make([]Terrain, width*height),
		rooms:       make([]int, width*height),
		roomTerrain: TerrainFloor,
	}
	for i := range g.rooms {
		g.rooms[i] = NoRoom
	}
	return g
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds returns true if (x, y) is on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// RoomTerrain returns the terrain that counts as room background. Pattern
// stamping treats this terrain as transparent.
func (g *Grid) RoomTerrain() Terrain { return g.roomTerrain }

// Terrain returns the terrain at (x, y). Out-of-bounds reads return wall,
// so callers probing past the edge see solid rock.
func (g *Grid) Terrain(x, y int) Terrain {
	if !g.InBounds(x, y) {
		return TerrainWall
	}
	return g.terrain[y*g.width+x]
}

// SetTerrain writes the terrain at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) SetTerrain(x, y int, t Terrain) {
	if !g.InBounds(x, y) {
		return
	}
	g.terrain[y*g.width+x] = t
}

// TryPlaceTile writes terrain at (x, y) and reports whether the write
// landed on the grid.
func (g *Grid) TryPlaceTile(x, y int, t Terrain) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.terrain[y*g.width+x] = t
	return true
}

// RoomID returns the room identity at (x, y), or NoRoom.
func (g *Grid) RoomID(x, y int) int {
	if !g.InBounds(x, y) {
		return NoRoom
	}
	return g.rooms[y*g.width+x]
}

// SetRoomID writes the room identity at (x, y). Out-of-bounds writes are
// ignored.
func (g *Grid) SetRoomID(x, y int, id int) {
	if !g.InBounds(x, y) {
		return
	}
	g.rooms[y*g.width+x] = id
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:       g.width,
		height:      g.height,
		terrain:     make([]Terrain, len(g.terrain)),
		rooms:       make([]int, len(g.rooms)),
		roomTerrain: g.roomTerrain,
	}
	copy(c.terrain, g.terrain)
	copy(c.rooms, g.rooms)
	return c
}

// Equal reports whether two grids have identical dimensions, terrain, and
// room identities.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.terrain {
		if g.terrain[i] != o.terrain[i] {
			return false
		}
	}
	for i := range g.rooms {
		if g.rooms[i] != o.rooms[i] {
			return false
		}
	}
	return true
}

// Render returns an ASCII rendering of the terrain layer, one row per line.
func (g *Grid) Render() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.Terrain(x, y).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
