package zone

import (
	"sort"

	"github.com/greyhollow/delve/internal/rng"
)

// PickPolicy selects how PickFloors distributes its choices over the
// eligible window.
type PickPolicy int

const (
	// PickRandom draws floors uniformly without replacement.
	PickRandom PickPolicy = iota
	// PickSpaced spreads the choices evenly across the window.
	PickSpaced
)

// PickRequest describes one floor-selection query against a ZoneContext.
type PickRequest struct {
	Count    int
	MinFloor int // inclusive
	MaxFloor int // inclusive
	Policy   PickPolicy

	// IncludeClaimed lets a stacking step target floors another step has
	// already claimed.
	IncludeClaimed bool
}

// ZoneContext carries the shared state zone steps coordinate through while
// deciding feature placement for one segment. It is not safe for concurrent
// use; the orchestrator runs zone steps sequentially.
type ZoneContext struct {
	FloorCount int
	Rand       *rng.Source

	claimed map[int]bool
}

// NewZoneContext returns a context for a segment of floorCount floors,
// driven by r.
func NewZoneContext(floorCount int, r *rng.Source) *ZoneContext {
	return &ZoneContext{
		FloorCount: floorCount,
		Rand:       r,
		claimed:    make(map[int]bool),
	}
}

// Claim marks floor as owned by a zone feature. It reports false when the
// floor is out of range or already claimed.
func (z *ZoneContext) Claim(floor int) bool {
	if floor < 0 || floor >= z.FloorCount || z.claimed[floor] {
		return false
	}
	z.claimed[floor] = true
	return true
}

// Claimed reports whether floor is already owned by a zone feature.
func (z *ZoneContext) Claimed(floor int) bool {
	return z.claimed[floor]
}

// ClaimedCount returns how many floors are currently claimed.
func (z *ZoneContext) ClaimedCount() int {
	return len(z.claimed)
}

// PickFloors selects up to req.Count floors from the window
// [req.MinFloor, req.MaxFloor], clamped to the segment. When fewer eligible
// floors exist than requested it returns all of them rather than failing.
// The result is sorted ascending. PickFloors does not claim; callers decide
// whether their feature is exclusive.
func (z *ZoneContext) PickFloors(req PickRequest) []int {
	lo, hi := req.MinFloor, req.MaxFloor
	if lo < 0 {
		lo = 0
	}
	if hi >= z.FloorCount {
		hi = z.FloorCount - 1
	}
	if req.Count < 1 || lo > hi {
		return nil
	}

	eligible := make([]int, 0, hi-lo+1)
	for f := lo; f <= hi; f++ {
		if !req.IncludeClaimed && z.claimed[f] {
			continue
		}
		eligible = append(eligible, f)
	}
	if len(eligible) == 0 {
		return nil
	}
	if req.Count >= len(eligible) {
		out := make([]int, len(eligible))
		copy(out, eligible)
		return out
	}

	var picked []int
	switch req.Policy {
	case PickSpaced:
		for i := 0; i < req.Count; i++ {
			idx := (i*len(eligible) + len(eligible)/2) / req.Count
			picked = append(picked, eligible[idx])
		}
	default:
		for i := 0; i < req.Count; i++ {
			j := z.Rand.Intn(len(eligible))
			picked = append(picked, eligible[j])
			eligible = append(eligible[:j], eligible[j+1:]...)
		}
	}
	sort.Ints(picked)
	return picked
}
