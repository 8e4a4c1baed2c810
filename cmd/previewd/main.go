// previewd serves generated floors over HTTP and WebSocket for map
// authoring tools.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/preview"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/zone"
)

func main() {
	configFile := flag.String("config", "delve.yaml", "Path to config file")
	listen := flag.String("listen", "", "Listen address (overrides config)")
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
	if *listen != "" {
		cfg.Preview.Listen = *listen
	}

	zones, err := zone.LoadZones(cfg.Data.ZoneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading zones: %v\n", err)
		os.Exit(1)
	}
	if len(zones) == 0 {
		fmt.Fprintf(os.Stderr, "No zones found in %s\n", cfg.Data.ZoneDir)
		os.Exit(1)
	}

	patterns := catalog.NewFileCatalog(cfg.Data.PatternDir)
	orchestrators := make(map[string]*zone.Orchestrator, len(zones))
	for id, z := range zones {
		orchestrators[id] = zone.NewOrchestrator(z, patterns, &spawn.UnitFactory{})
	}

	server := preview.NewServer(cfg.Preview, orchestrators)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("preview server exited", "error", err)
		os.Exit(1)
	}
}
