package grid

// Terrain represents the terrain type of a single tile.
type Terrain int

const (
	TerrainWall  Terrain = iota // Solid rock, the default fill
	TerrainFloor                // Open room/hall floor
	TerrainWater                // Water, impassable to most mobs
	TerrainChasm                // Bottomless drop
	TerrainRubble               // Debris, passable but rough
	TerrainSealed               // Sealed wall around locked vault rooms
)

// String returns the string representation of a Terrain.
func (t Terrain) String() string {
	switch t {
	case TerrainWall:
		return "wall"
	case TerrainFloor:
		return "floor"
	case TerrainWater:
		return "water"
	case TerrainChasm:
		return "chasm"
	case TerrainRubble:
		return "rubble"
	case TerrainSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Rune returns the single-character representation used by map files and
// ASCII rendering.
func (t Terrain) Rune() rune {
	switch t {
	case TerrainWall:
		return '#'
	case TerrainFloor:
		return '.'
	case TerrainWater:
		return '~'
	case TerrainChasm:
		return '^'
	case TerrainRubble:
		return ','
	case TerrainSealed:
		return '+'
	default:
		return '?'
	}
}

// TerrainFromRune maps a map-file character back to a Terrain.
// The second return value is false for unknown characters.
func TerrainFromRune(r rune) (Terrain, bool) {
	switch r {
	case '#':
		return TerrainWall, true
	case '.':
		return TerrainFloor, true
	case '~':
		return TerrainWater, true
	case '^':
		return TerrainChasm, true
	case ',':
		return TerrainRubble, true
	case '+':
		return TerrainSealed, true
	default:
		return TerrainWall, false
	}
}
