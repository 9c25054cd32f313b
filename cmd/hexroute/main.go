// Command hexroute serves hex-grid movement queries over HTTP.
// It loads the saved map snapshot, or generates and saves a new one.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexroute/internal/api"
	"github.com/talgya/hexroute/internal/config"
	"github.com/talgya/hexroute/internal/entropy"
	"github.com/talgya/hexroute/internal/pathfind"
	"github.com/talgya/hexroute/internal/persistence"
	"github.com/talgya/hexroute/internal/units"
	"github.com/talgya/hexroute/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./hexroute.json if present)")
	regenerate := flag.Bool("regenerate", false, "discard the saved map and generate a new one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Map ───────────────────────────────────────────────────────────
	worldMap, err := loadOrGenerate(db, cfg.Gen.World(), *regenerate)
	if err != nil {
		slog.Error("failed to prepare map", "error", err)
		os.Exit(1)
	}
	for t, c := range world.TerrainCounts(worldMap) {
		slog.Debug("terrain", "type", world.TerrainName(t), "count", c)
	}

	// ── Units ─────────────────────────────────────────────────────────
	registry := units.NewRegistry()
	saved, err := db.LoadUnits()
	if err != nil {
		slog.Error("failed to load units", "error", err)
		os.Exit(1)
	}
	if err := registry.Restore(saved); err != nil {
		slog.Error("failed to restore units", "error", err)
		os.Exit(1)
	}
	registry.Sync(worldMap)

	slog.Info("map ready",
		"width", worldMap.Width,
		"height", worldMap.Height,
		"hexes", humanize.Comma(int64(worldMap.HexCount())),
		"units", len(saved),
	)

	// ── Pathfinder + API ──────────────────────────────────────────────
	finder := pathfind.New(worldMap, registry, registry)
	finder.Logger = logger.With("component", "pathfind")

	if cfg.API.AdminKey == "" {
		slog.Warn("api.adminKey not set, snapshot endpoint disabled")
	}

	apiServer := &api.Server{
		Map:       worldMap,
		Finder:    finder,
		Units:     registry,
		DB:        db,
		Port:      cfg.API.Port,
		AdminKey:  cfg.API.AdminKey,
		QueryRate: cfg.API.QueryRate,
	}
	apiServer.Start()

	fmt.Printf("\nhexroute: %s hexes, %d unit types.\n",
		humanize.Comma(int64(worldMap.HexCount())), len(registry.Types()))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	// Final save of unit placements; the map itself is immutable.
	if err := db.SaveUnits(registry.Units()); err != nil {
		slog.Error("final save failed", "error", err)
	}
}

// loadOrGenerate restores the saved map, or generates and saves a new one.
func loadOrGenerate(db *persistence.DB, gen world.GenConfig, regenerate bool) (*world.Map, error) {
	if !regenerate {
		m, err := db.LoadMap()
		if err == nil {
			slog.Info("map snapshot loaded", "hexes", m.HexCount())
			return m, nil
		}
		if !errors.Is(err, persistence.ErrNoSnapshot) {
			return nil, fmt.Errorf("load map: %w", err)
		}
		slog.Info("no saved map found, generating...")
	}

	gen.Seed = entropy.Resolve(gen.Seed)
	m := world.Generate(gen)
	slog.Info("map generated", "seed", gen.Seed, "width", gen.Width, "height", gen.Height)
	if err := db.SaveMap(m); err != nil {
		return nil, fmt.Errorf("save map: %w", err)
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(gen.Seed, 10)); err != nil {
		return nil, fmt.Errorf("save seed: %w", err)
	}
	if err := db.SaveUnits(nil); err != nil {
		return nil, fmt.Errorf("clear units: %w", err)
	}
	return m, nil
}
