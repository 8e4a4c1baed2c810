// stressrun generates a zone across many seeds concurrently and records
// every outcome in the result store, so bad seeds and step regressions
// surface before they ship in authored content.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/store"
	"github.com/greyhollow/delve/internal/zone"
)

func main() {
	configFile := flag.String("config", "delve.yaml", "Path to config file")
	zoneID := flag.String("zone", "", "Zone to stress (empty for every loaded zone)")
	runs := flag.Int("runs", 100, "Number of seed variants to generate per zone")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent generation workers")
	baseSeed := flag.Int64("seed", 1, "First seed of the sweep")
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
	if *zoneID != "" {
		z, ok := zones[*zoneID]
		if !ok {
			fmt.Fprintf(os.Stderr, "No zone %q in %s\n", *zoneID, cfg.Data.ZoneDir)
			os.Exit(1)
		}
		zones = map[string]*zone.Zone{z.ID: z}
	}

	results, err := store.Open(cfg.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening result store: %v\n", err)
		os.Exit(1)
	}
	defer results.Close()

	patterns := catalog.NewFileCatalog(cfg.Data.PatternDir)

	for _, z := range zones {
		start := time.Now()
		if err := sweepZone(z, patterns, results, *baseSeed, *runs, *workers); err != nil {
			fmt.Fprintf(os.Stderr, "Error sweeping zone %s: %v\n", z.ID, err)
			os.Exit(1)
		}
		report(results, z.ID, *runs, time.Since(start))
	}
}

// sweepZone generates every floor of z under each seed in the sweep,
// recording one result row per floor. Generation failures are recorded,
// not fatal; only store errors abort the sweep.
func sweepZone(z *zone.Zone, patterns catalog.Catalog, results *store.Store, baseSeed int64, runs, workers int) error {
	var g errgroup.Group
	g.SetLimit(workers)

	for i := 0; i < runs; i++ {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			variant := *z
			variant.Seed = seed
			o := zone.NewOrchestrator(&variant, patterns, &spawn.UnitFactory{})

			for s, seg := range variant.Segments {
				for f := 0; f < seg.FloorCount; f++ {
					began := time.Now()
					ctx, err := o.GenerateFloor(s, f)

					result := store.Result{
						ZoneID:     variant.ID,
						Segment:    s,
						Floor:      f,
						Seed:       seed,
						DurationMS: time.Since(began).Milliseconds(),
					}
					if err != nil {
						result.Error = err.Error()
						logger.Warning("floor failed in sweep", "zone", variant.ID, "seed", seed, "floor", f, "error", err)
					} else {
						result.Success = true
						result.Rooms = len(ctx.Plan.Rooms)
						result.Teams = len(ctx.Teams)
						result.Items = len(ctx.Items)
					}
					if _, err := results.RecordResult(result); err != nil {
						return fmt.Errorf("recording seed %d floor %d: %w", seed, f, err)
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func report(results *store.Store, zoneID string, runs int, elapsed time.Duration) {
	sum, err := results.Summarize(zoneID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error summarizing %s: %v\n", zoneID, err)
		return
	}
	fmt.Printf("%s: %d runs, %d floors generated, %d failed (%.1f%%) in %s\n",
		zoneID, runs, sum.Total, sum.Failed,
		100*float64(sum.Failed)/float64(max(sum.Total, 1)), elapsed.Round(time.Millisecond))
	fmt.Printf("  avg rooms %.1f, avg teams %.1f\n", sum.AvgRooms, sum.AvgTeams)

	if sum.Failed == 0 {
		return
	}
	failed, err := results.FailedSeeds(zoneID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing failed seeds: %v\n", err)
		return
	}
	shown := 0
	fmt.Println("  recent failures:")
	for _, r := range failed {
		fmt.Printf("    seed %d segment %d floor %d: %s\n", r.Seed, r.Segment, r.Floor, r.Error)
		shown++
		if shown >= 10 {
			fmt.Printf("    ... and %d more\n", len(failed)-shown)
			break
		}
	}
}
