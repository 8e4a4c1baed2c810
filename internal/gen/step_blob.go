package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/stencil"
)

// BlobStep grows organic contiguous blobs of a terrain (water, chasm,
// rubble) and places each as a single all-or-nothing unit through the blob
// stencil.
type BlobStep struct {
	Terrain grid.Terrain
	Amount  [2]int // Inclusive range of blobs to place
	Size    [2]int // Inclusive range of tiles per blob
	Stencil stencil.Predicate
}

// Name identifies the step in logs.
func (s BlobStep) Name() string { return "blob_" + s.Terrain.String() }

// Band returns the features band.
func (s BlobStep) Band() Band { return BandFeatures }

// Apply places the configured number of blobs.
func (s BlobStep) Apply(ctx *Context) error {
	if s.Size[0] < 1 {
		return fmt.Errorf("blob size %v invalid: need at least one tile", s.Size)
	}

	pred := s.Stencil
	if pred == nil {
		pred = stencil.RoomTerrainOnly()
	}

	count := ctx.Rand.Range(s.Amount[0], s.Amount[1])
	for i := 0; i < count; i++ {
		size := ctx.Rand.Range(s.Size[0], s.Size[1])
		mask := growBlob(ctx, size)
		if !s.placeBlob(ctx, mask, pred) {
			logger.Debug("blob instance skipped, retries exhausted",
				"step", s.Name(),
				"size", size,
				"floor", ctx.Floor)
		}
	}
	return nil
}

func (s BlobStep) placeBlob(ctx *Context, mask [][]bool, pred stencil.Predicate) bool {
	h := len(mask)
	w := len(mask[0])
	maxX := ctx.Grid.Width() - w
	maxY := ctx.Grid.Height() - h
	if maxX < 0 || maxY < 0 {
		return false
	}

	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		ox := ctx.Rand.Range(0, maxX)
		oy := ctx.Rand.Range(0, maxY)
		if !stencil.CanPlaceMask(ctx.Grid, ox, oy, mask, pred) {
			continue
		}
		for my, row := range mask {
			for mx, solid := range row {
				if solid {
					ctx.Grid.SetTerrain(ox+mx, oy+my, s.Terrain)
				}
			}
		}
		return true
	}
	return false
}

// growBlob random-walks outward from a single tile until the blob holds
// size tiles, then trims the result to its bounding box. The blob is
// contiguous by construction.
func growBlob(ctx *Context, size int) [][]bool {
	cells := map[grid.Point]bool{{X: 0, Y: 0}: true}
	points := []grid.Point{{X: 0, Y: 0}}

	dirs := []grid.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	for len(cells) < size {
		base := points[ctx.Rand.Intn(len(points))]
		d := dirs[ctx.Rand.Intn(len(dirs))]
		next := grid.Point{X: base.X + d.X, Y: base.Y + d.Y}
		if cells[next] {
			continue
		}
		cells[next] = true
		points = append(points, next)
	}

	minX, minY, maxX, maxY := 0, 0, 0, 0
	for p := range cells {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	mask := make([][]bool, maxY-minY+1)
	for y := range mask {
		mask[y] = make([]bool, maxX-minX+1)
	}
	for p := range cells {
		mask[p.Y-minY][p.X-minX] = true
	}
	return mask
}
