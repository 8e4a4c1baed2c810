package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/stencil"
)

// PatternSource is one weighted named pattern a pattern step can draw.
type PatternSource struct {
	Name   string
	Weight int
}

// PatternStep stamps named patterns (water pools, chasm shapes, floor
// decorations) onto room terrain. Each requested instance gets up to
// MaxPlacementAttempts random offsets; an instance whose attempts all fail
// the stencil is skipped silently, so the floor stays valid with fewer
// instances than requested.
type PatternStep struct {
	StepName string // Defaults to "pattern"
	Amount   [2]int // Inclusive range of instances to place
	Sources  []PatternSource
	Mirror   bool              // Randomly mirror/transpose each instance
	Stencil  stencil.Predicate // Defaults to room-terrain-only
}

// Name identifies the step in logs.
func (s PatternStep) Name() string {
	if s.StepName != "" {
		return s.StepName
	}
	return "pattern"
}

// Band returns the features band.
func (s PatternStep) Band() Band { return BandFeatures }

// Apply places the configured number of pattern instances.
func (s PatternStep) Apply(ctx *Context) error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("pattern step has no sources")
	}
	weights := make([]int, len(s.Sources))
	total := 0
	for i, src := range s.Sources {
		if src.Weight < 0 {
			return fmt.Errorf("pattern source %q has negative weight %d", src.Name, src.Weight)
		}
		weights[i] = src.Weight
		total += src.Weight
	}
	if total == 0 {
		return fmt.Errorf("pattern sources have zero total weight")
	}

	pred := s.Stencil
	if pred == nil {
		pred = stencil.RoomTerrainOnly()
	}

	count := ctx.Rand.Range(s.Amount[0], s.Amount[1])

	// Loaded patterns are cached for this step invocation only, never
	// across steps or floors.
	cache := make(map[string]*grid.Pattern)

	for i := 0; i < count; i++ {
		src := s.Sources[ctx.Rand.PickIndex(weights)]

		p, ok := cache[src.Name]
		if !ok {
			loaded, err := ctx.Catalog.LoadNamedMap(src.Name)
			if err != nil {
				return fmt.Errorf("loading pattern: %w", err)
			}
			cache[src.Name] = loaded
			p = loaded
		}

		if s.Mirror {
			p = randomOrientation(ctx, p)
		}

		if !s.placeInstance(ctx, p, pred) {
			logger.Debug("pattern instance skipped, retries exhausted",
				"step", s.Name(),
				"pattern", src.Name,
				"floor", ctx.Floor,
				"attempts", MaxPlacementAttempts)
		}
	}
	return nil
}

// placeInstance tries up to MaxPlacementAttempts random offsets and stamps
// at the first offset where the whole pattern passes the stencil.
func (s PatternStep) placeInstance(ctx *Context, p *grid.Pattern, pred stencil.Predicate) bool {
	maxX := ctx.Grid.Width() - p.Width
	maxY := ctx.Grid.Height() - p.Height
	if maxX < 0 || maxY < 0 {
		return false // Pattern larger than the floor
	}

	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		ox := ctx.Rand.Range(0, maxX)
		oy := ctx.Rand.Range(0, maxY)
		if !stencil.CanPlacePattern(ctx.Grid, p, ox, oy, pred) {
			continue
		}
		stampPattern(ctx.Grid, p, ox, oy)
		return true
	}
	return false
}

// randomOrientation mirrors and transposes with independent 50% chances
// per axis, so every combination is reachable.
func randomOrientation(ctx *Context, p *grid.Pattern) *grid.Pattern {
	if ctx.Rand.Chance(0.5) {
		p = p.MirrorX()
	}
	if ctx.Rand.Chance(0.5) {
		p = p.MirrorY()
	}
	if ctx.Rand.Chance(0.5) {
		p = p.Transpose()
	}
	return p
}

// stampPattern writes the pattern's opaque tiles. Background tiles are
// transparent and leave the floor untouched.
func stampPattern(g *grid.Grid, p *grid.Pattern, ox, oy int) {
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if !p.Opaque(x, y) {
				continue
			}
			g.SetTerrain(ox+x, oy+y, p.At(x, y))
		}
	}
}
