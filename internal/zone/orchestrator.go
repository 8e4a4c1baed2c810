package zone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/rng"
	"github.com/greyhollow/delve/internal/spawn"
)

// Orchestrator generates floors for one zone. Zone steps run lazily, once
// per segment, the first time any floor of that segment is requested; their
// decisions are cached so every later request sees the same plan. Floor
// generation itself is independent per call, so GenerateFloor is safe for
// concurrent use.
type Orchestrator struct {
	zone    *Zone
	catalog catalog.Catalog
	factory spawn.EntityFactory

	mu    sync.Mutex
	plans map[int][]*FloorPlan
}

// NewOrchestrator returns an orchestrator for zone. The catalog supplies
// named patterns to placement steps; the factory materializes spawned
// entities.
func NewOrchestrator(zone *Zone, cat catalog.Catalog, factory spawn.EntityFactory) *Orchestrator {
	return &Orchestrator{
		zone:    zone,
		catalog: cat,
		factory: factory,
		plans:   make(map[int][]*FloorPlan),
	}
}

// Zone returns the zone this orchestrator generates.
func (o *Orchestrator) Zone() *Zone { return o.zone }

// segmentPlans runs the segment's zone steps once and caches the resulting
// per-floor plans.
func (o *Orchestrator) segmentPlans(segment int) ([]*FloorPlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if plans, ok := o.plans[segment]; ok {
		return plans, nil
	}

	seg := o.zone.Segments[segment]
	zc := NewZoneContext(seg.FloorCount, rng.New(rng.DeriveSegmentSeed(o.zone.Seed, segment)))
	plans := make([]*FloorPlan, seg.FloorCount)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	for _, zs := range seg.ZoneSteps {
		if err := zs.Decide(zc, plans); err != nil {
			return nil, fmt.Errorf("zone %q segment %d step %q: %w", o.zone.ID, segment, zs.Name(), err)
		}
	}
	logger.Debug("zone steps decided", "zone", o.zone.ID, "segment", segment, "claimed", zc.ClaimedCount())
	o.plans[segment] = plans
	return plans, nil
}

// GenerateFloor builds one floor. The same (zone seed, segment, floor)
// triple always yields an identical floor.
func (o *Orchestrator) GenerateFloor(segment, floor int) (*gen.Context, error) {
	if segment < 0 || segment >= len(o.zone.Segments) {
		return nil, fmt.Errorf("zone %q has no segment %d", o.zone.ID, segment)
	}
	seg := o.zone.Segments[segment]
	if floor < 0 || floor >= seg.FloorCount {
		return nil, fmt.Errorf("zone %q segment %d has no floor %d", o.zone.ID, segment, floor)
	}

	plans, err := o.segmentPlans(segment)
	if err != nil {
		return nil, err
	}

	ctx := gen.NewContext(gen.ContextConfig{
		ZoneID:    o.zone.ID,
		Segment:   segment,
		Floor:     floor,
		Seed:      rng.DeriveFloorSeed(o.zone.Seed, segment, floor),
		Width:     seg.Width,
		Height:    seg.Height,
		MobTable:  seg.MobTable,
		ItemTable: seg.ItemTable,
		Themes:    seg.Themes,
		Catalog:   o.catalog,
		Factory:   o.factory,
	})

	q := gen.NewQueue()
	for _, step := range seg.BaseSteps {
		if err := q.Push(step); err != nil {
			return nil, fmt.Errorf("zone %q segment %d: %w", o.zone.ID, segment, err)
		}
	}
	for _, step := range plans[floor].Steps {
		if err := q.Push(step); err != nil {
			return nil, fmt.Errorf("zone %q segment %d: %w", o.zone.ID, segment, err)
		}
	}
	if err := q.Drain(ctx); err != nil {
		return nil, fmt.Errorf("zone %q segment %d: %w", o.zone.ID, segment, err)
	}

	logger.Debug("floor generated",
		"zone", o.zone.ID, "segment", segment, "floor", floor,
		"rooms", len(ctx.Plan.Rooms), "teams", len(ctx.Teams), "items", len(ctx.Items))
	return ctx, nil
}

// GenerateZone builds every floor of every segment in order. A floor that
// fails is logged and skipped; generation continues so one broken floor
// does not hide the rest. The joined error reports all failures.
func (o *Orchestrator) GenerateZone() ([]*gen.Context, error) {
	var (
		floors []*gen.Context
		errs   []error
	)
	for s, seg := range o.zone.Segments {
		for f := 0; f < seg.FloorCount; f++ {
			ctx, err := o.GenerateFloor(s, f)
			if err != nil {
				logger.Error("floor generation failed", "zone", o.zone.ID, "segment", s, "floor", f, "error", err)
				errs = append(errs, err)
				continue
			}
			floors = append(floors, ctx)
		}
	}
	return floors, errors.Join(errs...)
}
