package zone

import (
	"fmt"

	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/spawn"
)

// FloorPlan accumulates the extra generation steps zone-wide features
// inject into one floor on top of the segment's static plan.
type FloorPlan struct {
	Index int
	Steps []gen.Step
}

// ZoneStep decides zone-wide feature placement for a segment. Decide runs
// exactly once, before any floor of the segment generates, and records its
// choices by appending steps to the floor plans. A step that cannot place
// everything it wants (all candidate floors claimed) places what it can
// and returns nil; only configuration errors abort.
type ZoneStep interface {
	Name() string
	Decide(zc *ZoneContext, plans []*FloorPlan) error
}

// SpreadMonsterHouses claims Count floors inside an eligibility window and
// injects a monster house step into each.
type SpreadMonsterHouses struct {
	Count    int
	MinFloor int
	MaxFloor int
	TeamSize [2]int
}

func (s SpreadMonsterHouses) Name() string { return "spread-monster-houses" }

func (s SpreadMonsterHouses) Decide(zc *ZoneContext, plans []*FloorPlan) error {
	if s.Count < 1 {
		return fmt.Errorf("%s: count %d invalid", s.Name(), s.Count)
	}
	floors := zc.PickFloors(PickRequest{
		Count:    s.Count,
		MinFloor: s.MinFloor,
		MaxFloor: s.MaxFloor,
	})
	for _, f := range floors {
		zc.Claim(f)
		plans[f].Steps = append(plans[f].Steps, gen.MonsterHouseStep{TeamSize: s.TeamSize})
	}
	if len(floors) < s.Count {
		logger.Warning("monster house placement saturated", "wanted", s.Count, "placed", len(floors))
	}
	return nil
}

// BossFloor claims a single floor near the middle of the segment and
// injects a boss encounter step.
type BossFloor struct {
	Team           []spawn.Descriptor
	LeaderFeatures []string
}

func (s BossFloor) Name() string { return "boss-floor" }

func (s BossFloor) Decide(zc *ZoneContext, plans []*FloorPlan) error {
	if len(s.Team) == 0 {
		return fmt.Errorf("%s: empty boss team", s.Name())
	}
	target := zc.FloorCount / 2
	floor := -1
	for delta := 0; delta < zc.FloorCount; delta++ {
		for _, f := range []int{target + delta, target - delta} {
			if f >= 0 && f < zc.FloorCount && !zc.Claimed(f) {
				floor = f
				break
			}
		}
		if floor >= 0 {
			break
		}
	}
	if floor < 0 {
		logger.Warning("boss floor placement saturated, all floors claimed")
		return nil
	}
	zc.Claim(floor)
	plans[floor].Steps = append(plans[floor].Steps, gen.BossStep{
		Team:           s.Team,
		LeaderFeatures: s.LeaderFeatures,
	})
	return nil
}

// SpreadVault claims a run of consecutive floors and injects one sealed
// vault part into each, so a multi-part vault spans adjacent floors.
type SpreadVault struct {
	Parts     int
	MinFloor  int
	MaxFloor  int
	ItemCount [2]int
}

func (s SpreadVault) Name() string { return "spread-vault" }

func (s SpreadVault) Decide(zc *ZoneContext, plans []*FloorPlan) error {
	if s.Parts < 1 {
		return fmt.Errorf("%s: parts %d invalid", s.Name(), s.Parts)
	}
	lo, hi := s.MinFloor, s.MaxFloor
	if lo < 0 {
		lo = 0
	}
	if hi >= zc.FloorCount {
		hi = zc.FloorCount - 1
	}

	// Shrink the run until a fully unclaimed stretch exists.
	for parts := s.Parts; parts >= 1; parts-- {
		var starts []int
		for start := lo; start+parts-1 <= hi; start++ {
			free := true
			for f := start; f < start+parts; f++ {
				if zc.Claimed(f) {
					free = false
					break
				}
			}
			if free {
				starts = append(starts, start)
			}
		}
		if len(starts) == 0 {
			continue
		}
		start := starts[zc.Rand.Intn(len(starts))]
		for i := 0; i < parts; i++ {
			f := start + i
			zc.Claim(f)
			plans[f].Steps = append(plans[f].Steps, gen.SealedRoomStep{
				VaultPart: i,
				ItemCount: s.ItemCount,
			})
		}
		if parts < s.Parts {
			logger.Warning("vault placement saturated", "wanted", s.Parts, "placed", parts)
		}
		return nil
	}
	logger.Warning("vault placement saturated, no unclaimed floors", "wanted", s.Parts)
	return nil
}

// SpreadThemedFloors overrides the spawn tables on a handful of floors.
// Theme overrides stack with other zone features, so this step neither
// claims floors nor skips claimed ones.
type SpreadThemedFloors struct {
	Count     int
	MinFloor  int
	MaxFloor  int
	Spaced    bool
	MobTable  *spawn.Table
	ItemTable *spawn.Table
}

func (s SpreadThemedFloors) Name() string { return "spread-themed-floors" }

func (s SpreadThemedFloors) Decide(zc *ZoneContext, plans []*FloorPlan) error {
	if s.Count < 1 {
		return fmt.Errorf("%s: count %d invalid", s.Name(), s.Count)
	}
	if s.MobTable == nil && s.ItemTable == nil {
		return fmt.Errorf("%s: no override tables", s.Name())
	}
	policy := PickRandom
	if s.Spaced {
		policy = PickSpaced
	}
	floors := zc.PickFloors(PickRequest{
		Count:          s.Count,
		MinFloor:       s.MinFloor,
		MaxFloor:       s.MaxFloor,
		Policy:         policy,
		IncludeClaimed: true,
	})
	for _, f := range floors {
		plans[f].Steps = append(plans[f].Steps, gen.ThemeOverrideStep{
			MobTable:  s.MobTable,
			ItemTable: s.ItemTable,
		})
	}
	return nil
}
