// Package stencil provides the geometric validity predicates placement
// steps consult before writing terrain. All tests are read-only and
// all-or-nothing: a region test passes only if every tile in the region
// passes, so partial placements never happen.
package stencil

import "github.com/greyhollow/delve/internal/grid"

// Predicate reports whether terrain may be written at (x, y). Predicates
// must not mutate the grid they inspect.
type Predicate func(g *grid.Grid, x, y int) bool

// Default returns the bounds-only predicate.
func Default() Predicate {
	return func(g *grid.Grid, x, y int) bool {
		return g.InBounds(x, y)
	}
}

// RoomTerrainOnly returns a predicate that passes only on tiles that carry
// the grid's room-background terrain and belong to a room. Used by pattern
// steps so features overlay room floors and never cut into walls or halls.
func RoomTerrainOnly() Predicate {
	return func(g *grid.Grid, x, y int) bool {
		return g.InBounds(x, y) &&
			g.Terrain(x, y) == g.RoomTerrain() &&
			g.RoomID(x, y) != grid.NoRoom
	}
}

// MinWallDistance returns a predicate requiring every tile within Chebyshev
// distance d to be in bounds and not wall terrain.
func MinWallDistance(d int) Predicate {
	return func(g *grid.Grid, x, y int) bool {
		for dy := -d; dy <= d; dy++ {
			for dx := -d; dx <= d; dx++ {
				if !g.InBounds(x+dx, y+dy) {
					return false
				}
				if g.Terrain(x+dx, y+dy) == grid.TerrainWall {
					return false
				}
			}
		}
		return true
	}
}

// And composes predicates by conjunction: all must pass.
func And(preds ...Predicate) Predicate {
	return func(g *grid.Grid, x, y int) bool {
		for _, p := range preds {
			if !p(g, x, y) {
				return false
			}
		}
		return true
	}
}

// CanPlace tests a single tile.
func CanPlace(g *grid.Grid, x, y int, pred Predicate) bool {
	return pred(g, x, y)
}

// CanPlaceRect tests a full rectangle. One failing tile fails the whole
// rectangle.
func CanPlaceRect(g *grid.Grid, r grid.Rect, pred Predicate) bool {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if !pred(g, x, y) {
				return false
			}
		}
	}
	return true
}

// CanPlaceMask tests an arbitrary blob mask placed at offset (ox, oy).
// Only solid mask cells are tested; one failing cell fails the blob.
func CanPlaceMask(g *grid.Grid, ox, oy int, mask [][]bool, pred Predicate) bool {
	for my, row := range mask {
		for mx, solid := range row {
			if !solid {
				continue
			}
			if !pred(g, ox+mx, oy+my) {
				return false
			}
		}
	}
	return true
}

// CanPlacePattern tests a pattern's opaque tiles placed at offset (ox, oy).
// Transparent (background) tiles are not tested, mirroring the stamping
// rule.
func CanPlacePattern(g *grid.Grid, p *grid.Pattern, ox, oy int, pred Predicate) bool {
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if !p.Opaque(x, y) {
				continue
			}
			if !pred(g, ox+x, oy+y) {
				return false
			}
		}
	}
	return true
}
