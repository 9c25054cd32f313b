// Package pathfind answers movement queries over a hex map snapshot:
// A* shortest paths and budget-bounded reachability.
//
// Every query allocates its own frontier, cost and visited state, so
// independent queries against an unmutated map may run concurrently.
// Callers must not mutate cells or occupancy while a query is in flight.
package pathfind

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

// Grid is the read view of the map the searches run over.
type Grid interface {
	CellAt(q, r int) *world.Hex
	NeighborsOf(cell *world.Hex) []*world.Hex
}

// Occupancy looks up the unit standing on a cell.
type Occupancy interface {
	UnitAt(q, r int) (uuid.UUID, bool)
}

var discardLogger = slog.New(slog.DiscardHandler)

// Pathfinder runs searches against one grid. It holds no per-query state.
type Pathfinder struct {
	grid      Grid
	occupancy Occupancy
	resolver  movement.Resolver

	// Logger receives one debug record per query. Nil discards.
	Logger *slog.Logger
}

// New creates a pathfinder. occupancy and resolver may be nil: without an
// occupancy oracle every cell is free, and without a resolver every unit
// type moves on land. A nil grid is a setup bug and panics.
func New(grid Grid, occupancy Occupancy, resolver movement.Resolver) *Pathfinder {
	if grid == nil {
		panic("pathfind: nil grid")
	}
	return &Pathfinder{
		grid:      grid,
		occupancy: occupancy,
		resolver:  resolver,
	}
}

// Domain resolves a unit type to its movement domain.
func (p *Pathfinder) Domain(unitType string) movement.Domain {
	return movement.Resolve(p.resolver, unitType)
}

// Cell returns the cell at c, or nil.
func (p *Pathfinder) Cell(c world.HexCoord) *world.Hex {
	return p.grid.CellAt(c.Q, c.R)
}

// IsPassableForUnit reports whether a unit of the given type may stand on c.
func (p *Pathfinder) IsPassableForUnit(c world.HexCoord, unitType string) bool {
	return movement.Passable(p.Domain(unitType), p.Cell(c))
}

// MovementCostForUnit returns the directed step cost between two adjacent
// coordinates for the given unit type. Non-adjacent or missing cells cost
// +Inf.
func (p *Pathfinder) MovementCostForUnit(from, to world.HexCoord, unitType string) float64 {
	if world.Distance(from, to) != 1 {
		return movement.Impassable
	}
	return movement.Cost(p.Domain(unitType), p.Cell(from), p.Cell(to))
}

func (p *Pathfinder) occupied(h *world.Hex) bool {
	if p.occupancy == nil {
		return false
	}
	_, ok := p.occupancy.UnitAt(h.Coord.Q, h.Coord.R)
	return ok
}

func (p *Pathfinder) logger() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

func isInf(v float64) bool {
	return math.IsInf(v, 1)
}
