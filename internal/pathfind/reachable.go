package pathfind

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexroute/internal/bucketq"
	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

// ReachOptions tune a ReachableCells query.
type ReachOptions struct {
	IgnoreOccupants bool
	UnitType        string
}

// ReachableSet maps every cell within budget to its cheapest cost.
type ReachableSet map[world.HexCoord]float64

// Contains reports whether c is reachable.
func (s ReachableSet) Contains(c world.HexCoord) bool {
	_, ok := s[c]
	return ok
}

// CostTo returns the cheapest cost to c, or +Inf.
func (s ReachableSet) CostTo(c world.HexCoord) float64 {
	if v, ok := s[c]; ok {
		return v
	}
	return math.Inf(1)
}

// Coords returns the reachable coordinates ordered by cost, then row, then
// column.
func (s ReachableSet) Coords() []world.HexCoord {
	out := make([]world.HexCoord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if s[a] != s[b] {
			return s[a] < s[b]
		}
		if a.R != b.R {
			return a.R < b.R
		}
		return a.Q < b.Q
	})
	return out
}

// ReachableCells returns every cell the unit type in opts can reach from
// start spending at most budget. start is always included at cost 0 when it
// exists on the grid.
func (p *Pathfinder) ReachableCells(start world.HexCoord, budget float64, opts ReachOptions) ReachableSet {
	return p.ReachableCellsDomain(start, budget, p.Domain(opts.UnitType), opts)
}

// ReachableCellsDomain is ReachableCells with an explicit domain.
func (p *Pathfinder) ReachableCellsDomain(start world.HexCoord, budget float64, d movement.Domain, opts ReachOptions) ReachableSet {
	startHex := p.Cell(start)
	if startHex == nil {
		return ReachableSet{}
	}
	if math.IsNaN(budget) {
		budget = 0
	}

	result := ReachableSet{}
	best := map[world.HexCoord]float64{start: 0}
	closed := mapset.New[world.HexCoord]()
	frontier := bucketq.New[*world.Hex]()
	frontier.Push(startHex, 0)

	for {
		current, ok := frontier.Pop()
		if !ok {
			break
		}
		if closed.Has(current.Coord) {
			continue
		}
		closed.Put(current.Coord)

		g := best[current.Coord]
		result[current.Coord] = g

		for _, next := range p.grid.NeighborsOf(current) {
			if closed.Has(next.Coord) {
				continue
			}
			if !opts.IgnoreOccupants && p.occupied(next) {
				continue
			}
			step := movement.Cost(d, current, next)
			if isInf(step) {
				continue
			}
			newCost := g + step
			if newCost > budget {
				continue
			}
			if old, seen := best[next.Coord]; seen && newCost >= old {
				continue
			}
			best[next.Coord] = newCost
			frontier.Push(next, newCost)
		}
	}

	p.logger().Debug("reachable cells",
		"start", start, "budget", budget, "domain", d, "cells", len(result))
	return result
}
