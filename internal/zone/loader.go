package zone

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/stencil"
)

type zoneFile struct {
	Zones []zoneYAML `yaml:"zones"`
}

type zoneYAML struct {
	ID       string        `yaml:"id"`
	Seed     int64         `yaml:"seed"`
	Segments []segmentYAML `yaml:"segments"`
}

type segmentYAML struct {
	Name      string                 `yaml:"name"`
	Floors    int                    `yaml:"floors"`
	Width     int                    `yaml:"width"`
	Height    int                    `yaml:"height"`
	Steps     []stepYAML             `yaml:"steps"`
	Mobs      []entryYAML            `yaml:"mobs"`
	Items     []entryYAML            `yaml:"items"`
	Themes    map[string][]entryYAML `yaml:"themes"`
	ZoneSteps []zoneStepYAML         `yaml:"zone_steps"`
}

type entryYAML struct {
	ID       string   `yaml:"id"`
	Theme    string   `yaml:"theme"`
	Weight   int      `yaml:"weight"`
	Level    int      `yaml:"level"`
	Features []string `yaml:"features"`
}

type sourceYAML struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

type stepYAML struct {
	Kind           string       `yaml:"kind"`
	Name           string       `yaml:"name"`
	Rooms          [2]int       `yaml:"rooms"`
	RoomWidth      [2]int       `yaml:"room_width"`
	RoomHeight     [2]int       `yaml:"room_height"`
	Amount         [2]int       `yaml:"amount"`
	Size           [2]int       `yaml:"size"`
	Sources        []sourceYAML `yaml:"sources"`
	Mirror         bool         `yaml:"mirror"`
	Terrain        string       `yaml:"terrain"`
	Stencil        string       `yaml:"stencil"`
	WallDistance   int          `yaml:"wall_distance"`
	Teams          [2]int       `yaml:"teams"`
	TeamSize       [2]int       `yaml:"team_size"`
	LeaderFeatures []string     `yaml:"leader_features"`
}

type zoneStepYAML struct {
	Kind           string      `yaml:"kind"`
	Count          int         `yaml:"count"`
	MinFloor       int         `yaml:"min_floor"`
	MaxFloor       int         `yaml:"max_floor"`
	TeamSize       [2]int      `yaml:"team_size"`
	Parts          int         `yaml:"parts"`
	ItemCount      [2]int      `yaml:"item_count"`
	Spaced         bool        `yaml:"spaced"`
	Team           []entryYAML `yaml:"team"`
	LeaderFeatures []string    `yaml:"leader_features"`
	Mobs           []entryYAML `yaml:"mobs"`
	Items          []entryYAML `yaml:"items"`
}

// LoadZones reads every .yaml file in dir and returns the zones they
// define, keyed by zone id.
func LoadZones(dir string) (map[string]*Zone, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan zone directory %s: %w", dir, err)
	}
	zones := make(map[string]*Zone)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read zone file %s: %w", file, err)
		}
		loaded, err := ParseZones(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone file %s: %w", file, err)
		}
		for _, z := range loaded {
			if _, dup := zones[z.ID]; dup {
				return nil, fmt.Errorf("duplicate zone id %q in %s", z.ID, file)
			}
			zones[z.ID] = z
		}
	}
	logger.Info("loaded zone definitions", "zones", len(zones), "dir", dir)
	return zones, nil
}

// ParseZones decodes zone definitions from yaml.
func ParseZones(data []byte) ([]*Zone, error) {
	var file zoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zones: %w", err)
	}
	var zones []*Zone
	for _, zy := range file.Zones {
		z := &Zone{ID: zy.ID, Seed: zy.Seed}
		for i, sy := range zy.Segments {
			seg, err := buildSegment(sy)
			if err != nil {
				return nil, fmt.Errorf("zone %q segment %d: %w", zy.ID, i, err)
			}
			z.Segments = append(z.Segments, seg)
		}
		if err := z.Validate(); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func buildSegment(sy segmentYAML) (*Segment, error) {
	seg := &Segment{
		Name:       sy.Name,
		FloorCount: sy.Floors,
		Width:      sy.Width,
		Height:     sy.Height,
		MobTable:   buildTable(sy.Mobs, spawn.KindMob),
		ItemTable:  buildTable(sy.Items, spawn.KindItem),
	}
	if len(sy.Themes) > 0 {
		seg.Themes = make(map[string]*spawn.Table, len(sy.Themes))
		for name, entries := range sy.Themes {
			seg.Themes[name] = buildTable(entries, spawn.KindMob)
		}
	}
	for j, st := range sy.Steps {
		step, err := buildStep(st)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", j, err)
		}
		seg.BaseSteps = append(seg.BaseSteps, step)
	}
	for j, zt := range sy.ZoneSteps {
		zs, err := buildZoneStep(zt)
		if err != nil {
			return nil, fmt.Errorf("zone step %d: %w", j, err)
		}
		seg.ZoneSteps = append(seg.ZoneSteps, zs)
	}
	return seg, nil
}

func buildTable(entries []entryYAML, kind spawn.Kind) *spawn.Table {
	if len(entries) == 0 {
		return &spawn.Table{}
	}
	t := &spawn.Table{Entries: make([]spawn.Entry, 0, len(entries))}
	for _, e := range entries {
		entry := spawn.Entry{Weight: e.Weight, Theme: e.Theme}
		if e.Theme == "" {
			entry.Spawn = spawn.Descriptor{
				ID:       e.ID,
				Kind:     kind,
				Level:    e.Level,
				Features: e.Features,
			}
		}
		t.Entries = append(t.Entries, entry)
	}
	return t
}

func buildDescriptors(entries []entryYAML, kind spawn.Kind) []spawn.Descriptor {
	descs := make([]spawn.Descriptor, 0, len(entries))
	for _, e := range entries {
		descs = append(descs, spawn.Descriptor{
			ID:       e.ID,
			Kind:     kind,
			Level:    e.Level,
			Features: e.Features,
		})
	}
	return descs
}

func buildStencil(st stepYAML) (stencil.Predicate, error) {
	var pred stencil.Predicate
	switch st.Stencil {
	case "", "default":
		pred = stencil.Default()
	case "room":
		pred = stencil.RoomTerrainOnly()
	default:
		return nil, fmt.Errorf("unknown stencil %q", st.Stencil)
	}
	if st.WallDistance > 0 {
		pred = stencil.And(pred, stencil.MinWallDistance(st.WallDistance))
	}
	return pred, nil
}

func buildStep(st stepYAML) (gen.Step, error) {
	switch st.Kind {
	case "room_carve":
		return gen.RoomCarveStep{
			RoomCount:  st.Rooms,
			RoomWidth:  st.RoomWidth,
			RoomHeight: st.RoomHeight,
		}, nil
	case "pattern":
		pred, err := buildStencil(st)
		if err != nil {
			return nil, err
		}
		sources := make([]gen.PatternSource, 0, len(st.Sources))
		for _, s := range st.Sources {
			sources = append(sources, gen.PatternSource{Name: s.Name, Weight: s.Weight})
		}
		return gen.PatternStep{
			StepName: st.Name,
			Amount:   st.Amount,
			Sources:  sources,
			Mirror:   st.Mirror,
			Stencil:  pred,
		}, nil
	case "blob":
		pred, err := buildStencil(st)
		if err != nil {
			return nil, err
		}
		if len(st.Terrain) != 1 {
			return nil, fmt.Errorf("blob terrain %q must be a single rune", st.Terrain)
		}
		terrain, ok := grid.TerrainFromRune(rune(st.Terrain[0]))
		if !ok {
			return nil, fmt.Errorf("unknown blob terrain %q", st.Terrain)
		}
		return gen.BlobStep{
			Terrain: terrain,
			Amount:  st.Amount,
			Size:    st.Size,
			Stencil: pred,
		}, nil
	case "spawn":
		return gen.SpawnStep{
			TeamCount:      st.Teams,
			TeamSize:       st.TeamSize,
			LeaderFeatures: st.LeaderFeatures,
		}, nil
	default:
		return nil, fmt.Errorf("unknown step kind %q", st.Kind)
	}
}

func buildZoneStep(zt zoneStepYAML) (ZoneStep, error) {
	switch zt.Kind {
	case "monster_houses":
		return SpreadMonsterHouses{
			Count:    zt.Count,
			MinFloor: zt.MinFloor,
			MaxFloor: zt.MaxFloor,
			TeamSize: zt.TeamSize,
		}, nil
	case "boss":
		return BossFloor{
			Team:           buildDescriptors(zt.Team, spawn.KindMob),
			LeaderFeatures: zt.LeaderFeatures,
		}, nil
	case "vault":
		return SpreadVault{
			Parts:     zt.Parts,
			MinFloor:  zt.MinFloor,
			MaxFloor:  zt.MaxFloor,
			ItemCount: zt.ItemCount,
		}, nil
	case "themed":
		step := SpreadThemedFloors{
			Count:    zt.Count,
			MinFloor: zt.MinFloor,
			MaxFloor: zt.MaxFloor,
			Spaced:   zt.Spaced,
		}
		if len(zt.Mobs) > 0 {
			step.MobTable = buildTable(zt.Mobs, spawn.KindMob)
		}
		if len(zt.Items) > 0 {
			step.ItemTable = buildTable(zt.Items, spawn.KindItem)
		}
		return step, nil
	default:
		return nil, fmt.Errorf("unknown zone step kind %q", zt.Kind)
	}
}
