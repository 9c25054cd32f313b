// Package api provides the HTTP API for movement queries.
// GET endpoints are public (read-only, rate limited).
// POST /snapshot requires a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/pathfind"
	"github.com/talgya/hexroute/internal/persistence"
	"github.com/talgya/hexroute/internal/units"
	"github.com/talgya/hexroute/internal/world"
)

// maxBatch caps the number of queries accepted by POST /api/v1/paths.
const maxBatch = 256

// Server serves movement queries over HTTP.
type Server struct {
	Map       *world.Map
	Finder    *pathfind.Pathfinder
	Units     *units.Registry
	DB        *persistence.DB
	Port      int
	AdminKey  string // Bearer token for POST /snapshot. Empty = disabled.
	QueryRate int    // Queries per client per minute. <= 0 = unlimited.
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limit := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if s.QueryRate > 0 {
		rl := NewRateLimiter(s.QueryRate, time.Minute)
		limit = func(h http.HandlerFunc) http.HandlerFunc { return RateLimitMiddleware(rl, h) }
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.handleMapRoutes)
	mux.HandleFunc("/api/v1/map/", s.handleMapRoutes)

	mux.HandleFunc("/api/v1/path", limit(s.handlePath))
	mux.HandleFunc("/api/v1/reachable", limit(s.handleReachable))
	mux.HandleFunc("/api/v1/paths", limit(s.handleBatch))

	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "query_rate", s.QueryRate)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no admin key set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	terrain := make(map[string]int)
	for t, n := range world.TerrainCounts(s.Map) {
		terrain[world.TerrainName(t)] = n
	}
	status := map[string]any{
		"width":   s.Map.Width,
		"height":  s.Map.Height,
		"hexes":   s.Map.HexCount(),
		"terrain": terrain,
	}
	if s.Units != nil {
		status["units"] = len(s.Units.Units())
		status["unit_types"] = s.Units.Types()
	}
	writeJSON(w, status)
}

// handleMapRoutes dispatches between bulk map (GET /api/v1/map) and hex detail (GET /api/v1/map/:q/:r).
func (s *Server) handleMapRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/map")
	if path == "" || path == "/" {
		s.handleBulkMap(w, r)
		return
	}
	s.handleHexDetail(w, r)
}

type hexEntry struct {
	Q         int    `json:"q"`
	R         int    `json:"r"`
	Elevation int    `json:"elevation"`
	Terrain   string `json:"terrain"`
	Rivers    uint8  `json:"rivers,omitempty"`
}

func entryFor(h *world.Hex) hexEntry {
	return hexEntry{
		Q:         h.Coord.Q,
		R:         h.Coord.R,
		Elevation: h.Elevation,
		Terrain:   world.TerrainName(h.Terrain),
		Rivers:    uint8(h.Rivers),
	}
}

// handleBulkMap returns all hexes in row order.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	hexes := make([]hexEntry, 0, s.Map.HexCount())
	for _, h := range s.Map.Hexes {
		hexes = append(hexes, entryFor(h))
	}
	sort.Slice(hexes, func(i, j int) bool {
		if hexes[i].R != hexes[j].R {
			return hexes[i].R < hexes[j].R
		}
		return hexes[i].Q < hexes[j].Q
	})

	writeJSON(w, map[string]any{
		"width":  s.Map.Width,
		"height": s.Map.Height,
		"hexes":  hexes,
	})
}

func (s *Server) handleHexDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/map/:q/:r → parts[0]="" [1]="api" [2]="v1" [3]="map" [4]=q [5]=r
	if len(parts) < 6 {
		http.Error(w, "usage: /api/v1/map/:q/:r", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[4])
	rr, err2 := strconv.Atoi(parts[5])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	hex := s.Map.CellAt(q, rr)
	if hex == nil {
		http.Error(w, "hex not found", http.StatusNotFound)
		return
	}

	passable := make(map[string]bool, len(movement.Domains))
	for _, d := range movement.Domains {
		passable[d.String()] = movement.Passable(d, hex)
	}

	// Cost of stepping from this hex into each neighbor, per domain.
	type neighborInfo struct {
		hexEntry
		Direction string              `json:"direction"`
		Costs     map[string]*float64 `json:"costs"`
	}
	var neighbors []neighborInfo
	for _, nh := range s.Map.NeighborsOf(hex) {
		dir, _ := hex.Coord.DirectionTo(nh.Coord)
		costs := make(map[string]*float64, len(movement.Domains))
		for _, d := range movement.Domains {
			costs[d.String()] = finite(movement.Cost(d, hex, nh))
		}
		neighbors = append(neighbors, neighborInfo{
			hexEntry:  entryFor(nh),
			Direction: dir.String(),
			Costs:     costs,
		})
	}

	x, y, z := world.ToWorld(hex.Coord, hex.Elevation)
	result := map[string]any{
		"hex":       entryFor(hex),
		"world":     []float64{x, y, z},
		"passable":  passable,
		"neighbors": neighbors,
	}
	if s.Units != nil {
		if id, ok := s.Units.UnitAt(q, rr); ok {
			if u, ok := s.Units.Get(id); ok {
				result["unit"] = u
			}
		}
	}
	writeJSON(w, result)
}

type pathResponse struct {
	Reachable bool             `json:"reachable"`
	Cost      *float64         `json:"cost"` // null when unreachable
	Steps     int              `json:"steps"`
	Path      []world.HexCoord `json:"path"`
}

func toPathResponse(res pathfind.PathResult) pathResponse {
	steps := len(res.Path) - 1
	if steps < 0 {
		steps = 0
	}
	return pathResponse{
		Reachable: res.Reachable,
		Cost:      finite(res.Cost),
		Steps:     steps,
		Path:      res.Coords(),
	}
}

// handlePath answers GET /api/v1/path?from=q,r&to=q,r[&unit=][&max=][&ignore_occupants=true].
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	from, err := parseCoord(qs.Get("from"))
	if err != nil {
		http.Error(w, "from: "+err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseCoord(qs.Get("to"))
	if err != nil {
		http.Error(w, "to: "+err.Error(), http.StatusBadRequest)
		return
	}
	opts := pathfind.PathOptions{
		UnitType:        qs.Get("unit"),
		IgnoreOccupants: qs.Get("ignore_occupants") == "true",
	}
	if v := qs.Get("max"); v != "" {
		if opts.MaxCost, err = strconv.ParseFloat(v, 64); err != nil {
			http.Error(w, "invalid max", http.StatusBadRequest)
			return
		}
	}

	res := s.Finder.FindPath(from, to, opts)
	writeJSON(w, toPathResponse(res))
}

// handleReachable answers GET /api/v1/reachable?from=q,r&budget=N[&unit=][&ignore_occupants=true].
func (s *Server) handleReachable(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	from, err := parseCoord(qs.Get("from"))
	if err != nil {
		http.Error(w, "from: "+err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := strconv.ParseFloat(qs.Get("budget"), 64)
	if err != nil || math.IsNaN(budget) {
		http.Error(w, "invalid budget", http.StatusBadRequest)
		return
	}
	opts := pathfind.ReachOptions{
		UnitType:        qs.Get("unit"),
		IgnoreOccupants: qs.Get("ignore_occupants") == "true",
	}

	set := s.Finder.ReachableCells(from, budget, opts)

	type cellCost struct {
		Q    int     `json:"q"`
		R    int     `json:"r"`
		Cost float64 `json:"cost"`
	}
	cells := make([]cellCost, 0, len(set))
	for _, c := range set.Coords() {
		cells = append(cells, cellCost{Q: c.Q, R: c.R, Cost: set[c]})
	}
	writeJSON(w, map[string]any{
		"budget": budget,
		"domain": s.Finder.Domain(opts.UnitType).String(),
		"cells":  cells,
	})
}

type batchQuery struct {
	From            world.HexCoord `json:"from"`
	To              world.HexCoord `json:"to"`
	Unit            string         `json:"unit"`
	MaxCost         float64        `json:"max_cost"`
	IgnoreOccupants bool           `json:"ignore_occupants"`
}

// handleBatch answers POST /api/v1/paths with {"queries": [...]}.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Queries []batchQuery `json:"queries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(body.Queries) > maxBatch {
		http.Error(w, fmt.Sprintf("at most %d queries per batch", maxBatch), http.StatusRequestEntityTooLarge)
		return
	}

	queries := make([]pathfind.Query, len(body.Queries))
	for i, bq := range body.Queries {
		queries[i] = pathfind.Query{
			Start: bq.From,
			End:   bq.To,
			Options: pathfind.PathOptions{
				UnitType:        bq.Unit,
				MaxCost:         bq.MaxCost,
				IgnoreOccupants: bq.IgnoreOccupants,
			},
		}
	}

	results, err := s.Finder.FindPaths(r.Context(), queries)
	if err != nil {
		slog.Warn("batch query aborted", "queries", len(queries), "error", err)
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}
	out := make([]pathResponse, len(results))
	for i, res := range results {
		out[i] = toPathResponse(res)
	}
	writeJSON(w, map[string]any{"results": out})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	if err := s.DB.SaveMap(s.Map); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	saved := 0
	if s.Units != nil {
		list := s.Units.Units()
		if err := s.DB.SaveUnits(list); err != nil {
			slog.Error("unit save failed", "error", err)
			http.Error(w, "snapshot failed", http.StatusInternalServerError)
			return
		}
		saved = len(list)
	}
	id := uuid.NewString()
	if err := s.DB.SaveMeta("snapshot_id", id); err != nil {
		slog.Error("snapshot meta save failed", "error", err)
	}

	writeJSON(w, map[string]any{
		"snapshot_id": id,
		"hexes":       s.Map.HexCount(),
		"units":       saved,
	})
}

// parseCoord parses "q,r".
func parseCoord(s string) (world.HexCoord, error) {
	qs, rs, ok := strings.Cut(s, ",")
	if !ok {
		return world.HexCoord{}, fmt.Errorf("expected q,r, got %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("invalid q %q", qs)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("invalid r %q", rs)
	}
	return world.HexCoord{Q: q, R: r}, nil
}

// finite returns nil for +Inf so costs survive JSON encoding.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
