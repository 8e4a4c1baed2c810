package zone

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/rng"
	"github.com/greyhollow/delve/internal/spawn"
)

type fakeEntity struct {
	id string
}

func (e *fakeEntity) EntityID() string { return e.id }

type fakeFactory struct{}

func (f *fakeFactory) Spawn(d spawn.Descriptor, team *spawn.Team) (spawn.Entity, error) {
	return &fakeEntity{id: fmt.Sprintf("%s-l%d", d.ID, d.Level)}, nil
}

func testSegment() *Segment {
	return &Segment{
		Name:       "upper-caves",
		FloorCount: 10,
		Width:      48,
		Height:     32,
		BaseSteps: []gen.Step{
			gen.RoomCarveStep{
				RoomCount:  [2]int{5, 7},
				RoomWidth:  [2]int{4, 8},
				RoomHeight: [2]int{3, 6},
			},
			gen.SpawnStep{
				TeamCount: [2]int{1, 2},
				TeamSize:  [2]int{2, 3},
			},
		},
		MobTable: &spawn.Table{Entries: []spawn.Entry{
			{Weight: 3, Spawn: spawn.Descriptor{ID: "cave-rat", Kind: spawn.KindMob, Level: 1}},
			{Weight: 1, Spawn: spawn.Descriptor{ID: "moss-crab", Kind: spawn.KindMob, Level: 2}},
		}},
		ItemTable: &spawn.Table{Entries: []spawn.Entry{
			{Weight: 1, Spawn: spawn.Descriptor{ID: "apple", Kind: spawn.KindItem}},
		}},
	}
}

func testZone(seed int64, steps ...ZoneStep) *Zone {
	seg := testSegment()
	seg.ZoneSteps = steps
	return &Zone{ID: "mossy-depths", Seed: seed, Segments: []*Segment{seg}}
}

func TestZoneContextClaims(t *testing.T) {
	zc := NewZoneContext(5, rng.New(1))

	assert.True(t, zc.Claim(2))
	assert.False(t, zc.Claim(2), "double claim must fail")
	assert.False(t, zc.Claim(-1))
	assert.False(t, zc.Claim(5))
	assert.True(t, zc.Claimed(2))
	assert.Equal(t, 1, zc.ClaimedCount())
}

func TestPickFloorsSaturates(t *testing.T) {
	zc := NewZoneContext(10, rng.New(1))
	for f := 0; f < 8; f++ {
		zc.Claim(f)
	}

	// Only floors 8 and 9 remain; asking for 5 yields both, no error.
	floors := zc.PickFloors(PickRequest{Count: 5, MinFloor: 0, MaxFloor: 9})
	assert.Equal(t, []int{8, 9}, floors)

	zc.Claim(8)
	zc.Claim(9)
	assert.Empty(t, zc.PickFloors(PickRequest{Count: 1, MinFloor: 0, MaxFloor: 9}))
}

func TestPickFloorsWindowClamped(t *testing.T) {
	zc := NewZoneContext(4, rng.New(1))
	floors := zc.PickFloors(PickRequest{Count: 10, MinFloor: -3, MaxFloor: 99})
	assert.Equal(t, []int{0, 1, 2, 3}, floors)
}

func TestPickFloorsSpaced(t *testing.T) {
	zc := NewZoneContext(12, rng.New(1))
	floors := zc.PickFloors(PickRequest{Count: 3, MinFloor: 0, MaxFloor: 11, Policy: PickSpaced})

	require.Len(t, floors, 3)
	// Spaced picks never bunch at one end of the window.
	assert.Less(t, floors[0], 4)
	assert.GreaterOrEqual(t, floors[1], 4)
	assert.Less(t, floors[1], 8)
	assert.GreaterOrEqual(t, floors[2], 8)
}

func TestPickFloorsIncludeClaimed(t *testing.T) {
	zc := NewZoneContext(3, rng.New(1))
	zc.Claim(0)
	zc.Claim(1)
	zc.Claim(2)

	floors := zc.PickFloors(PickRequest{Count: 2, MinFloor: 0, MaxFloor: 2, IncludeClaimed: true})
	assert.Len(t, floors, 2)
}

func TestSpreadMonsterHousesDeterministic(t *testing.T) {
	pick := func() []int {
		zc := NewZoneContext(10, rng.New(rng.DeriveSegmentSeed(42, 0)))
		plans := make([]*FloorPlan, 10)
		for i := range plans {
			plans[i] = &FloorPlan{Index: i}
		}
		step := SpreadMonsterHouses{Count: 2, MinFloor: 1, MaxFloor: 8, TeamSize: [2]int{6, 10}}
		require.NoError(t, step.Decide(zc, plans))

		var floors []int
		for _, p := range plans {
			if len(p.Steps) > 0 {
				floors = append(floors, p.Index)
			}
		}
		return floors
	}

	first := pick()
	second := pick()

	require.Len(t, first, 2)
	for _, f := range first {
		assert.GreaterOrEqual(t, f, 1)
		assert.LessOrEqual(t, f, 8)
	}
	assert.Equal(t, first, second, "same zone seed must select the same floors")
}

func TestBossFloorPrefersMiddle(t *testing.T) {
	zc := NewZoneContext(10, rng.New(1))
	plans := make([]*FloorPlan, 10)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	step := BossFloor{Team: []spawn.Descriptor{{ID: "moss-tyrant", Kind: spawn.KindMob, Level: 12}}}
	require.NoError(t, step.Decide(zc, plans))

	assert.NotEmpty(t, plans[5].Steps)
	assert.True(t, zc.Claimed(5))
}

func TestBossFloorEmptyTeamIsError(t *testing.T) {
	zc := NewZoneContext(10, rng.New(1))
	err := BossFloor{}.Decide(zc, make([]*FloorPlan, 10))
	assert.Error(t, err)
}

func TestBossFloorShiftsOffClaimedMiddle(t *testing.T) {
	zc := NewZoneContext(10, rng.New(1))
	zc.Claim(5)
	plans := make([]*FloorPlan, 10)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	step := BossFloor{Team: []spawn.Descriptor{{ID: "moss-tyrant", Kind: spawn.KindMob}}}
	require.NoError(t, step.Decide(zc, plans))

	var placed []int
	for _, p := range plans {
		if len(p.Steps) > 0 {
			placed = append(placed, p.Index)
		}
	}
	require.Len(t, placed, 1)
	assert.NotEqual(t, 5, placed[0])
	assert.Contains(t, []int{4, 6}, placed[0])
}

func TestSpreadVaultClaimsConsecutiveRun(t *testing.T) {
	zc := NewZoneContext(10, rng.New(7))
	plans := make([]*FloorPlan, 10)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	step := SpreadVault{Parts: 3, MinFloor: 2, MaxFloor: 9, ItemCount: [2]int{1, 2}}
	require.NoError(t, step.Decide(zc, plans))

	var floors []int
	for _, p := range plans {
		if len(p.Steps) > 0 {
			floors = append(floors, p.Index)
		}
	}
	require.Len(t, floors, 3)
	assert.Equal(t, floors[0]+1, floors[1])
	assert.Equal(t, floors[1]+1, floors[2])
	for i, f := range floors {
		require.True(t, zc.Claimed(f))
		part, ok := plans[f].Steps[0].(gen.SealedRoomStep)
		require.True(t, ok)
		assert.Equal(t, i, part.VaultPart)
	}
}

func TestSpreadVaultShrinksWhenSaturated(t *testing.T) {
	zc := NewZoneContext(6, rng.New(7))
	// Claim everything except floors 2 and 3.
	for _, f := range []int{0, 1, 4, 5} {
		zc.Claim(f)
	}
	plans := make([]*FloorPlan, 6)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	step := SpreadVault{Parts: 4, MinFloor: 0, MaxFloor: 5, ItemCount: [2]int{1, 1}}
	require.NoError(t, step.Decide(zc, plans))

	var floors []int
	for _, p := range plans {
		if len(p.Steps) > 0 {
			floors = append(floors, p.Index)
		}
	}
	assert.Equal(t, []int{2, 3}, floors)
}

func TestSpreadThemedFloorsStacksOnClaimed(t *testing.T) {
	zc := NewZoneContext(4, rng.New(1))
	for f := 0; f < 4; f++ {
		zc.Claim(f)
	}
	plans := make([]*FloorPlan, 4)
	for i := range plans {
		plans[i] = &FloorPlan{Index: i}
	}
	themed := &spawn.Table{Entries: []spawn.Entry{
		{Weight: 1, Spawn: spawn.Descriptor{ID: "tunnel-worm", Kind: spawn.KindMob, Level: 1}},
	}}
	step := SpreadThemedFloors{Count: 2, MinFloor: 0, MaxFloor: 3, MobTable: themed}
	require.NoError(t, step.Decide(zc, plans))

	placed := 0
	for _, p := range plans {
		placed += len(p.Steps)
	}
	assert.Equal(t, 2, placed, "themed overrides must land on claimed floors")
	assert.Equal(t, 4, zc.ClaimedCount(), "themed overrides must not claim")
}

func TestSpreadThemedFloorsRequiresTables(t *testing.T) {
	zc := NewZoneContext(4, rng.New(1))
	err := SpreadThemedFloors{Count: 1, MaxFloor: 3}.Decide(zc, make([]*FloorPlan, 4))
	assert.Error(t, err)
}

func TestOrchestratorFloorDeterminism(t *testing.T) {
	build := func() *gen.Context {
		z := testZone(42,
			SpreadMonsterHouses{Count: 2, MinFloor: 1, MaxFloor: 8, TeamSize: [2]int{4, 6}},
			BossFloor{Team: []spawn.Descriptor{{ID: "moss-tyrant", Kind: spawn.KindMob, Level: 12}}},
		)
		o := NewOrchestrator(z, catalog.NewMemory(), &fakeFactory{})
		ctx, err := o.GenerateFloor(0, 3)
		require.NoError(t, err)
		return ctx
	}

	a := build()
	b := build()

	assert.True(t, a.Grid.Equal(b.Grid), "same seed must produce identical terrain")
	require.Equal(t, len(a.Teams), len(b.Teams))
	for i := range a.Teams {
		assert.Equal(t, a.Teams[i].RoomID, b.Teams[i].RoomID)
		require.Equal(t, a.Teams[i].Team.Size(), b.Teams[i].Team.Size())
		for j, m := range a.Teams[i].Team.Members {
			assert.Equal(t, m.EntityID(), b.Teams[i].Team.Members[j].EntityID())
		}
	}
}

func TestOrchestratorFloorIndependence(t *testing.T) {
	z := testZone(42)
	o := NewOrchestrator(z, catalog.NewMemory(), &fakeFactory{})

	// Generating floor 7 first and floor 3 second must not change floor 3.
	_, err := o.GenerateFloor(0, 7)
	require.NoError(t, err)
	late, err := o.GenerateFloor(0, 3)
	require.NoError(t, err)

	fresh, err := NewOrchestrator(testZone(42), catalog.NewMemory(), &fakeFactory{}).GenerateFloor(0, 3)
	require.NoError(t, err)
	assert.True(t, late.Grid.Equal(fresh.Grid))
}

func TestOrchestratorRejectsBadIndices(t *testing.T) {
	o := NewOrchestrator(testZone(1), catalog.NewMemory(), &fakeFactory{})

	_, err := o.GenerateFloor(1, 0)
	assert.Error(t, err)
	_, err = o.GenerateFloor(0, 10)
	assert.Error(t, err)
	_, err = o.GenerateFloor(0, -1)
	assert.Error(t, err)
}

func TestGenerateZoneCollectsFloorFailures(t *testing.T) {
	z := testZone(42)
	// A zero-weight mob table makes spawning fail on every floor.
	z.Segments[0].MobTable = &spawn.Table{Entries: []spawn.Entry{
		{Weight: 0, Spawn: spawn.Descriptor{ID: "ghost", Kind: spawn.KindMob}},
	}}
	o := NewOrchestrator(z, catalog.NewMemory(), &fakeFactory{})

	floors, err := o.GenerateZone()
	assert.Error(t, err)
	assert.Empty(t, floors)
}

func TestGenerateZoneBuildsEveryFloor(t *testing.T) {
	z := testZone(42,
		SpreadMonsterHouses{Count: 2, MinFloor: 1, MaxFloor: 8, TeamSize: [2]int{4, 6}},
		BossFloor{Team: []spawn.Descriptor{{ID: "moss-tyrant", Kind: spawn.KindMob, Level: 12}}},
		SpreadVault{Parts: 2, MinFloor: 2, MaxFloor: 9, ItemCount: [2]int{1, 2}},
	)
	o := NewOrchestrator(z, catalog.NewMemory(), &fakeFactory{})

	floors, err := o.GenerateZone()
	require.NoError(t, err)
	require.Len(t, floors, 10)

	houses, bosses, vaultParts := 0, 0, 0
	for _, ctx := range floors {
		for _, room := range ctx.Plan.Rooms {
			if room.MonsterHouse {
				houses++
			}
			if room.Kind == gen.RoomBoss {
				bosses++
			}
			if room.Sealed {
				vaultParts++
			}
		}
	}
	assert.Equal(t, 2, houses)
	assert.Equal(t, 1, bosses)
	assert.Equal(t, 2, vaultParts)
}

func TestZoneValidate(t *testing.T) {
	z := testZone(1)
	require.NoError(t, z.Validate())

	z.Segments[0].FloorCount = 0
	assert.Error(t, z.Validate())

	assert.Error(t, (&Zone{ID: "empty"}).Validate())
	assert.Error(t, (&Zone{Segments: []*Segment{testSegment()}}).Validate())
}
