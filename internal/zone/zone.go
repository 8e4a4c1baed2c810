// Package zone is the zone-wide orchestration layer: it decides which
// floors of a dungeon receive which cross-floor features (vaults, the boss
// floor, monster houses, themed spreads) and drives per-floor generation.
package zone

import (
	"fmt"

	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/spawn"
)

// Segment is a contiguous run of floors sharing generation rules: the same
// static step plan, ambient spawn tables, and zone-wide steps. Loaded
// segments are immutable templates; floor contexts clone what they need.
type Segment struct {
	Name       string
	FloorCount int
	Width      int
	Height     int

	// BaseSteps is the static per-floor step plan. Steps are config-only
	// values; the same plan generates every floor of the segment.
	BaseSteps []gen.Step

	MobTable  *spawn.Table
	ItemTable *spawn.Table
	Themes    map[string]*spawn.Table

	// ZoneSteps run once per segment, in declared order, before any floor
	// generates.
	ZoneSteps []ZoneStep
}

// Zone is a full dungeon: an ordered list of segments plus the zone-wide
// seed every floor seed derives from.
type Zone struct {
	ID       string
	Seed     int64
	Segments []*Segment
}

// Validate checks structural invariants of an authored zone.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone has no id")
	}
	if len(z.Segments) == 0 {
		return fmt.Errorf("zone %q has no segments", z.ID)
	}
	for i, seg := range z.Segments {
		if seg.FloorCount < 1 {
			return fmt.Errorf("zone %q segment %d: floor count %d invalid", z.ID, i, seg.FloorCount)
		}
		if seg.Width < 8 || seg.Height < 8 {
			return fmt.Errorf("zone %q segment %d: floor size %dx%d too small", z.ID, i, seg.Width, seg.Height)
		}
		if len(seg.BaseSteps) == 0 {
			return fmt.Errorf("zone %q segment %d: no generation steps", z.ID, i)
		}
	}
	return nil
}
