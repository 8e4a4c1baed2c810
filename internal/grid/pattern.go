package grid

// Pattern is a named tile map stamped onto floors by pattern steps. The
// pattern's Background terrain is transparent: only tiles that differ from
// it are stamped, which lets irregular shapes overlay existing room floors
// cleanly.
type Pattern struct {
	Name          string
	Width, Height int
	Background    Terrain
	Tiles         []Terrain
}

// NewPattern creates an empty pattern filled with the background terrain.
func NewPattern(name string, width, height int, background Terrain) *Pattern {
	p := &Pattern{
		Name:       name,
		Width:      width,
		Height:     height,
		Background: background,
		Tiles:      make([]Terrain, width*height),
	}
	for i := range p.Tiles {
		p.Tiles[i] = background
	}
	return p
}

// At returns the terrain at (x, y) within the pattern. Out-of-bounds reads
// return the background terrain.
func (p *Pattern) At(x, y int) Terrain {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return p.Background
	}
	return p.Tiles[y*p.Width+x]
}

// Set writes the terrain at (x, y). Out-of-bounds writes are ignored.
func (p *Pattern) Set(x, y int, t Terrain) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Tiles[y*p.Width+x] = t
}

// Opaque reports whether the tile at (x, y) stamps when the pattern is
// placed. Background tiles are transparent, everything else is opaque.
func (p *Pattern) Opaque(x, y int) bool {
	return p.At(x, y) != p.Background
}

// MirrorX returns a copy mirrored horizontally.
func (p *Pattern) MirrorX() *Pattern {
	m := NewPattern(p.Name, p.Width, p.Height, p.Background)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			m.Set(p.Width-1-x, y, p.At(x, y))
		}
	}
	return m
}

// MirrorY returns a copy mirrored vertically.
func (p *Pattern) MirrorY() *Pattern {
	m := NewPattern(p.Name, p.Width, p.Height, p.Background)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			m.Set(x, p.Height-1-y, p.At(x, y))
		}
	}
	return m
}

// Transpose returns a copy with x and y swapped (width and height trade
// places).
func (p *Pattern) Transpose() *Pattern {
	m := NewPattern(p.Name, p.Height, p.Width, p.Background)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			m.Set(y, x, p.At(x, y))
		}
	}
	return m
}
