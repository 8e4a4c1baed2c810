package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/spawn"
)

// BossStep places an authored boss team in the floor's largest room and
// marks that room as the boss arena. Zone orchestration injects exactly
// one of these per zone, on the floor it chooses.
type BossStep struct {
	Team           []spawn.Descriptor // Authored boss team, leader first
	LeaderFeatures []string
}

// Name identifies the step in logs.
func (s BossStep) Name() string { return "boss" }

// Band returns the spawning band.
func (s BossStep) Band() Band { return BandSpawning }

// Apply marks the arena and spawns the boss team.
func (s BossStep) Apply(ctx *Context) error {
	if len(s.Team) == 0 {
		return fmt.Errorf("boss step has no team configured")
	}

	room := largestRoom(ctx.Plan, func(r *Room) bool {
		return !r.Sealed && !r.MonsterHouse
	})
	if room == nil {
		return placementFailed(s.Name(), "no eligible room for the arena")
	}
	room.Kind = RoomBoss

	descs := make([]spawn.Descriptor, len(s.Team))
	for i, d := range s.Team {
		descs[i] = spawn.ScaleForFloor(d, ctx.Floor)
	}
	descs[0].Features = append(descs[0].Features, s.LeaderFeatures...)

	team, err := spawn.SpawnTeam(ctx.Factory, descs, spawn.AlignmentHostile)
	if err != nil {
		return fmt.Errorf("spawning boss team: %w", err)
	}
	ctx.Teams = append(ctx.Teams, SpawnedTeam{Team: team, RoomID: room.ID})
	return nil
}

// largestRoom returns the matching room with the greatest area,
// tie-broken by lowest ID so the choice is stable.
func largestRoom(plan *RoomPlan, filter func(*Room) bool) *Room {
	var best *Room
	bestArea := -1
	for _, room := range plan.Rooms {
		if filter != nil && !filter(room) {
			continue
		}
		area := room.Bounds.W * room.Bounds.H
		if area > bestArea {
			best = room
			bestArea = area
		}
	}
	return best
}
