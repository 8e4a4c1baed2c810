// floorview is an interactive terminal viewer for generated floors:
// arrow keys walk the segment, bracket keys switch segments, q quits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/zone"
)

func main() {
	configFile := flag.String("config", "delve.yaml", "Path to config file")
	zoneID := flag.String("zone", "", "Zone to view (empty for the first loaded zone)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// File-only logging: the console belongs to the viewer.
	cfg.Logging.ConsoleEnabled = false
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	zones, err := zone.LoadZones(cfg.Data.ZoneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading zones: %v\n", err)
		os.Exit(1)
	}
	var z *zone.Zone
	if *zoneID != "" {
		z = zones[*zoneID]
	} else {
		for _, candidate := range zones {
			if z == nil || candidate.ID < z.ID {
				z = candidate
			}
		}
	}
	if z == nil {
		fmt.Fprintf(os.Stderr, "No zone %q in %s\n", *zoneID, cfg.Data.ZoneDir)
		os.Exit(1)
	}

	o := zone.NewOrchestrator(z, catalog.NewFileCatalog(cfg.Data.PatternDir), &spawn.UnitFactory{})

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	run(screen, o)
}

type viewState struct {
	segment int
	floor   int
	ctx     *gen.Context
	err     error
}

func run(screen tcell.Screen, o *zone.Orchestrator) {
	state := viewState{}
	state.load(o)

	for {
		draw(screen, o, &state)
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyUp, tcell.KeyRight:
				state.move(o, 1)
			case tcell.KeyDown, tcell.KeyLeft:
				state.move(o, -1)
			case tcell.KeyEscape:
				return
			}
			switch ev.Rune() {
			case 'q', 'Q':
				return
			case 'k', 'l':
				state.move(o, 1)
			case 'j', 'h':
				state.move(o, -1)
			case ']':
				state.switchSegment(o, 1)
			case '[':
				state.switchSegment(o, -1)
			}
		}
	}
}

func (s *viewState) load(o *zone.Orchestrator) {
	s.ctx, s.err = o.GenerateFloor(s.segment, s.floor)
}

func (s *viewState) move(o *zone.Orchestrator, delta int) {
	count := o.Zone().Segments[s.segment].FloorCount
	s.floor = (s.floor + delta + count) % count
	s.load(o)
}

func (s *viewState) switchSegment(o *zone.Orchestrator, delta int) {
	n := len(o.Zone().Segments)
	s.segment = (s.segment + delta + n) % n
	s.floor = 0
	s.load(o)
}

var terrainStyles = map[grid.Terrain]tcell.Style{
	grid.TerrainWall:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	grid.TerrainFloor:  tcell.StyleDefault.Foreground(tcell.ColorSilver),
	grid.TerrainWater:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
	grid.TerrainChasm:  tcell.StyleDefault.Foreground(tcell.ColorPurple),
	grid.TerrainRubble: tcell.StyleDefault.Foreground(tcell.ColorOlive),
	grid.TerrainSealed: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
}

func draw(screen tcell.Screen, o *zone.Orchestrator, state *viewState) {
	screen.Clear()

	header := fmt.Sprintf("%s  segment %d  floor %d/%d   arrows/hjkl: floor  [ ]: segment  q: quit",
		o.Zone().ID, state.segment, state.floor,
		o.Zone().Segments[state.segment].FloorCount-1)
	putText(screen, 0, 0, header, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	if state.err != nil {
		putText(screen, 0, 2, "generation failed: "+state.err.Error(),
			tcell.StyleDefault.Foreground(tcell.ColorRed))
		screen.Show()
		return
	}

	g := state.ctx.Grid
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			terrain := g.Terrain(x, y)
			style, ok := terrainStyles[terrain]
			if !ok {
				style = tcell.StyleDefault
			}
			screen.SetContent(x, y+2, terrain.Rune(), nil, style)
		}
	}

	// Mark teams and items over the terrain.
	markStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	for _, st := range state.ctx.Teams {
		room := state.ctx.Plan.Room(st.RoomID)
		if room == nil {
			continue
		}
		c := room.Center()
		screen.SetContent(c.X, c.Y+2, 'M', nil, markStyle)
	}
	itemStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for _, it := range state.ctx.Items {
		screen.SetContent(it.X, it.Y+2, '$', nil, itemStyle)
	}

	footer := fmt.Sprintf("seed %d   rooms %d   teams %d   items %d",
		state.ctx.Seed, len(state.ctx.Plan.Rooms), len(state.ctx.Teams), len(state.ctx.Items))
	putText(screen, 0, g.Height()+3, footer, tcell.StyleDefault.Foreground(tcell.ColorSilver))

	screen.Show()
}

func putText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range s {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
