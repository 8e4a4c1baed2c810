package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/spawn"
)

// SpawnStep resolves the floor's accumulated mob table into hostile teams
// and places them in rooms.
type SpawnStep struct {
	TeamCount      [2]int // Inclusive range of teams to place
	TeamSize       [2]int // Inclusive range of members per team
	LeaderFeatures []string
}

// Name identifies the step in logs.
func (s SpawnStep) Name() string { return "spawn_teams" }

// Band returns the spawning band.
func (s SpawnStep) Band() Band { return BandSpawning }

// Apply spawns the configured number of teams.
func (s SpawnStep) Apply(ctx *Context) error {
	flat, err := spawn.Flatten(ctx.MobTable, ctx.Themes)
	if err != nil {
		return fmt.Errorf("mob table: %w", err)
	}

	count := ctx.Rand.Range(s.TeamCount[0], s.TeamCount[1])
	for i := 0; i < count; i++ {
		room := ctx.Plan.RandomRoom(ctx.Rand, func(r *Room) bool {
			return !r.Sealed && !r.MonsterHouse
		})
		if room == nil {
			return placementFailed(s.Name(), "no open rooms to spawn into")
		}

		// Team size is drawn once, before resolution begins.
		size := ctx.Rand.Range(s.TeamSize[0], s.TeamSize[1])
		descs, err := spawn.Resolve(flat, size, s.LeaderFeatures, ctx.Rand)
		if err != nil {
			return fmt.Errorf("mob table: %w", err)
		}
		for j := range descs {
			descs[j] = spawn.ScaleForFloor(descs[j], ctx.Floor)
		}

		team, err := spawn.SpawnTeam(ctx.Factory, descs, spawn.AlignmentHostile)
		if err != nil {
			return fmt.Errorf("spawning team %d: %w", i, err)
		}
		if team != nil {
			ctx.Teams = append(ctx.Teams, SpawnedTeam{Team: team, RoomID: room.ID})
		}
	}
	return nil
}

// MonsterHouseStep marks one room as a monster house and floods it with a
// single oversized hostile team drawn from the mob table. Injected by zone
// orchestration on the floors it selects.
type MonsterHouseStep struct {
	TeamSize [2]int
}

// Name identifies the step in logs.
func (s MonsterHouseStep) Name() string { return "monster_house" }

// Band returns the spawning band.
func (s MonsterHouseStep) Band() Band { return BandSpawning }

// Apply claims a room and fills it.
func (s MonsterHouseStep) Apply(ctx *Context) error {
	room := ctx.Plan.RandomRoom(ctx.Rand, func(r *Room) bool {
		return !r.Sealed && !r.MonsterHouse && r.Kind == RoomNormal
	})
	if room == nil {
		return placementFailed(s.Name(), "no eligible room")
	}
	room.MonsterHouse = true

	flat, err := spawn.Flatten(ctx.MobTable, ctx.Themes)
	if err != nil {
		return fmt.Errorf("mob table: %w", err)
	}

	size := ctx.Rand.Range(s.TeamSize[0], s.TeamSize[1])
	descs, err := spawn.Resolve(flat, size, nil, ctx.Rand)
	if err != nil {
		return fmt.Errorf("mob table: %w", err)
	}
	for i := range descs {
		descs[i] = spawn.ScaleForFloor(descs[i], ctx.Floor)
	}

	team, err := spawn.SpawnTeam(ctx.Factory, descs, spawn.AlignmentHostile)
	if err != nil {
		return fmt.Errorf("spawning house team: %w", err)
	}
	if team != nil {
		ctx.Teams = append(ctx.Teams, SpawnedTeam{Team: team, RoomID: room.ID})
	}
	return nil
}
