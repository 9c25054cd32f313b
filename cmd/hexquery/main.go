// Command hexquery runs a single path or reachability query against the
// saved map snapshot and prints the result.
//
//	hexquery -from 3,4 -to 10,7 -unit galley
//	hexquery -from 3,4 -budget 6 -unit marine
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexroute/internal/config"
	"github.com/talgya/hexroute/internal/pathfind"
	"github.com/talgya/hexroute/internal/persistence"
	"github.com/talgya/hexroute/internal/units"
	"github.com/talgya/hexroute/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	fromFlag := flag.String("from", "", "start hex as q,r (required)")
	toFlag := flag.String("to", "", "target hex as q,r (path query)")
	budget := flag.Float64("budget", -1, "movement budget (reachability query)")
	maxCost := flag.Float64("max", 0, "maximum path cost (0 = unbounded)")
	unitType := flag.String("unit", "", "unit type (default: land movement)")
	ignoreOccupants := flag.Bool("ignore-occupants", false, "path through occupied hexes")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *fromFlag == "" || (*toFlag == "" && *budget < 0) {
		fmt.Fprintln(os.Stderr, "usage: hexquery -from q,r (-to q,r | -budget N) [-unit type]")
		os.Exit(2)
	}
	from, err := parseCoord(*fromFlag)
	if err != nil {
		fail("from", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("config", err)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		fail("open database", err)
	}
	defer db.Close()

	worldMap, err := db.LoadMap()
	if errors.Is(err, persistence.ErrNoSnapshot) {
		fail("load map", fmt.Errorf("%w (run hexroute once to generate one)", err))
	}
	if err != nil {
		fail("load map", err)
	}

	registry := units.NewRegistry()
	saved, err := db.LoadUnits()
	if err != nil {
		fail("load units", err)
	}
	if err := registry.Restore(saved); err != nil {
		fail("restore units", err)
	}

	finder := pathfind.New(worldMap, registry, registry)
	finder.Logger = logger
	domain := finder.Domain(*unitType)

	if *toFlag != "" {
		to, err := parseCoord(*toFlag)
		if err != nil {
			fail("to", err)
		}
		res := finder.FindPath(from, to, pathfind.PathOptions{
			IgnoreOccupants: *ignoreOccupants,
			MaxCost:         *maxCost,
			UnitType:        *unitType,
		})
		if !res.Reachable {
			fmt.Printf("%v → %v (%s): unreachable\n", from, to, domain)
			os.Exit(1)
		}
		fmt.Printf("%v → %v (%s): cost %.1f over %d steps\n", from, to, domain, res.Cost, len(res.Path)-1)
		for i, h := range res.Path {
			fmt.Printf("  %3d  %-8v %-10s elev %d\n", i, h.Coord, world.TerrainName(h.Terrain), h.Elevation)
		}
		return
	}

	set := finder.ReachableCells(from, *budget, pathfind.ReachOptions{
		IgnoreOccupants: *ignoreOccupants,
		UnitType:        *unitType,
	})
	fmt.Printf("%v (%s), budget %.1f: %s of %s hexes reachable\n",
		from, domain, *budget,
		humanize.Comma(int64(len(set))), humanize.Comma(int64(worldMap.HexCount())))
	for _, c := range set.Coords() {
		fmt.Printf("  %-8v %.1f\n", c, set[c])
	}
}

func parseCoord(s string) (world.HexCoord, error) {
	qs, rs, ok := strings.Cut(s, ",")
	if !ok {
		return world.HexCoord{}, fmt.Errorf("expected q,r, got %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return world.HexCoord{}, err
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return world.HexCoord{}, err
	}
	return world.HexCoord{Q: q, R: r}, nil
}

func fail(what string, err error) {
	slog.Error(what+" failed", "error", err)
	os.Exit(1)
}
