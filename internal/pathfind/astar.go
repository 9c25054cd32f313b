package pathfind

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexroute/internal/bucketq"
	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

// PathOptions tune a FindPath query.
type PathOptions struct {
	IgnoreOccupants bool
	MaxCost         float64 // <= 0 means no limit
	UnitType        string  // resolved to a domain; empty means land
}

func (o PathOptions) maxCost() float64 {
	if o.MaxCost <= 0 || math.IsNaN(o.MaxCost) {
		return math.Inf(1)
	}
	return o.MaxCost
}

// PathResult is the outcome of a FindPath query. An unreachable result has
// an empty path and +Inf cost.
type PathResult struct {
	Path      []*world.Hex
	Cost      float64
	Reachable bool
}

// Coords returns the path as coordinates.
func (r PathResult) Coords() []world.HexCoord {
	out := make([]world.HexCoord, len(r.Path))
	for i, h := range r.Path {
		out[i] = h.Coord
	}
	return out
}

func unreachable() PathResult {
	return PathResult{Path: []*world.Hex{}, Cost: math.Inf(1)}
}

// FindPath returns the cheapest path from start to end for the unit type in
// opts.
func (p *Pathfinder) FindPath(start, end world.HexCoord, opts PathOptions) PathResult {
	return p.FindPathDomain(start, end, p.Domain(opts.UnitType), opts)
}

// FindPathDomain is FindPath with an explicit domain; opts.UnitType is
// ignored.
//
// An occupied destination never blocks the query: occupancy only stops
// movement through intermediate cells, so a unit can path onto an enemy it
// intends to attack.
func (p *Pathfinder) FindPathDomain(start, end world.HexCoord, d movement.Domain, opts PathOptions) PathResult {
	startHex := p.Cell(start)
	endHex := p.Cell(end)
	if startHex == nil || endHex == nil {
		return unreachable()
	}
	if start == end {
		return PathResult{Path: []*world.Hex{startHex}, Cost: 0, Reachable: true}
	}
	if !movement.Passable(d, endHex) {
		p.logger().Debug("path target impassable", "end", end, "domain", d)
		return unreachable()
	}

	maxCost := opts.maxCost()
	frontier := bucketq.New[*world.Hex]()
	costSoFar := map[world.HexCoord]float64{start: 0}
	cameFrom := make(map[world.HexCoord]*world.Hex)
	closed := mapset.New[world.HexCoord]()

	frontier.Push(startHex, float64(world.Distance(start, end)))
	expanded := 0

	for {
		current, ok := frontier.Pop()
		if !ok {
			break
		}
		if closed.Has(current.Coord) {
			continue // stale entry superseded by a cheaper push
		}
		closed.Put(current.Coord)
		expanded++

		if current.Coord == end {
			result := PathResult{
				Path:      reconstructPath(cameFrom, startHex, endHex),
				Cost:      costSoFar[end],
				Reachable: true,
			}
			p.logger().Debug("path found",
				"start", start, "end", end, "domain", d,
				"cost", result.Cost, "steps", len(result.Path)-1, "expanded", expanded)
			return result
		}

		g := costSoFar[current.Coord]
		for _, next := range p.grid.NeighborsOf(current) {
			if closed.Has(next.Coord) {
				continue
			}
			if !opts.IgnoreOccupants && next.Coord != end && p.occupied(next) {
				continue
			}
			step := movement.Cost(d, current, next)
			if isInf(step) {
				continue
			}
			newCost := g + step
			if newCost > maxCost {
				continue
			}
			if old, seen := costSoFar[next.Coord]; seen && newCost >= old {
				continue
			}
			costSoFar[next.Coord] = newCost
			cameFrom[next.Coord] = current
			frontier.Push(next, newCost+float64(world.Distance(next.Coord, end)))
		}
	}

	p.logger().Debug("no path",
		"start", start, "end", end, "domain", d, "expanded", expanded)
	return unreachable()
}

// reconstructPath walks the predecessor map back from end to start.
func reconstructPath(cameFrom map[world.HexCoord]*world.Hex, start, end *world.Hex) []*world.Hex {
	path := []*world.Hex{end}
	for cur := end; cur != start; {
		cur = cameFrom[cur.Coord]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
