// delvegen generates dungeon floors from zone definitions and renders them
// as ASCII maps or YAML exports.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/preview"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/zone"
)

func main() {
	configFile := flag.String("config", "delve.yaml", "Path to config file")
	zoneID := flag.String("zone", "", "Zone to generate (empty for the first loaded zone)")
	segment := flag.Int("segment", 0, "Segment index")
	floorNum := flag.Int("floor", -1, "Floor number to generate (-1 for all floors)")
	seed := flag.Int64("seed", 0, "Override the zone seed (0 keeps the authored seed)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	exportFile := flag.String("export", "", "Export generated floors as YAML to this file")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	zones, err := zone.LoadZones(cfg.Data.ZoneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading zones: %v\n", err)
		os.Exit(1)
	}
	z := pickZone(zones, *zoneID)
	if z == nil {
		fmt.Fprintf(os.Stderr, "No zone %q in %s\n", *zoneID, cfg.Data.ZoneDir)
		os.Exit(1)
	}
	if *seed != 0 {
		z.Seed = *seed
	}

	patterns := catalog.NewFileCatalog(cfg.Data.PatternDir)
	o := zone.NewOrchestrator(z, patterns, &spawn.UnitFactory{})

	if *segment < 0 || *segment >= len(z.Segments) {
		fmt.Fprintf(os.Stderr, "Zone %q has no segment %d\n", z.ID, *segment)
		os.Exit(1)
	}
	seg := z.Segments[*segment]

	var floors []*gen.Context
	for f := 0; f < seg.FloorCount; f++ {
		if *floorNum >= 0 && f != *floorNum {
			continue
		}
		ctx, err := o.GenerateFloor(*segment, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating floor %d: %v\n", f, err)
			os.Exit(1)
		}
		floors = append(floors, ctx)
	}
	if len(floors) == 0 {
		fmt.Fprintf(os.Stderr, "Segment %d has no floor %d\n", *segment, *floorNum)
		os.Exit(1)
	}

	if *exportFile != "" {
		if err := exportYAML(*exportFile, z, floors); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Export written to %s\n", *exportFile)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Zone %s (Seed: %d, Segment: %s)\n", z.ID, z.Seed, seg.Name))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")
	for _, ctx := range floors {
		renderFloor(&output, ctx)
		output.WriteString("\n")
	}
	if *showLegend {
		output.WriteString(getLegend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

func pickZone(zones map[string]*zone.Zone, id string) *zone.Zone {
	if id != "" {
		return zones[id]
	}
	var ids []string
	for zid := range zones {
		ids = append(ids, zid)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	return zones[ids[0]]
}

func renderFloor(output *strings.Builder, ctx *gen.Context) {
	output.WriteString(fmt.Sprintf("Floor %d (seed %d)\n", ctx.Floor, ctx.Seed))
	output.WriteString(strings.Repeat("-", 40) + "\n")
	output.WriteString(ctx.Grid.Render())

	output.WriteString("\nRoom Details:\n")
	for _, room := range ctx.Plan.Rooms {
		var markers []string
		if room.Kind == gen.RoomBoss {
			markers = append(markers, "boss")
		}
		if room.Sealed {
			markers = append(markers, "vault")
		}
		if room.MonsterHouse {
			markers = append(markers, "monster-house")
		}
		details := fmt.Sprintf("  [%2d] %2dx%-2d at (%d,%d)",
			room.ID, room.Bounds.W, room.Bounds.H, room.Bounds.X, room.Bounds.Y)
		if len(markers) > 0 {
			details += " [" + strings.Join(markers, ", ") + "]"
		}
		output.WriteString(details + "\n")
	}

	if len(ctx.Teams) > 0 {
		output.WriteString("\nTeams:\n")
		for _, st := range ctx.Teams {
			var members []string
			for _, m := range st.Team.Members {
				members = append(members, m.EntityID())
			}
			output.WriteString(fmt.Sprintf("  room %d: %s\n", st.RoomID, strings.Join(members, ", ")))
		}
	}
	if len(ctx.Items) > 0 {
		output.WriteString("\nItems:\n")
		for _, it := range ctx.Items {
			output.WriteString(fmt.Sprintf("  %s at (%d,%d)\n", it.Item.ID, it.X, it.Y))
		}
	}
}

func exportYAML(path string, z *zone.Zone, floors []*gen.Context) error {
	type export struct {
		Zone   string              `yaml:"zone"`
		Seed   int64               `yaml:"seed"`
		Floors []preview.FloorView `yaml:"floors"`
	}
	doc := export{Zone: z.ID, Seed: z.Seed}
	for _, ctx := range floors {
		doc.Floors = append(doc.Floors, preview.BuildFloorView(ctx))
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func getLegend() string {
	return `
Legend:
  #   Wall
  .   Floor
  ~   Water
  ^   Chasm
  ,   Rubble
  +   Sealed wall (vault)
`
}
