package pathfind

import (
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

func sortedCoords(m *world.Map) []world.HexCoord {
	out := make([]world.HexCoord, 0, len(m.Hexes))
	for c := range m.Hexes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// bruteForceCosts relaxes every edge until nothing changes and returns the
// cheapest cost to each reachable cell.
func bruteForceCosts(m *world.Map, start world.HexCoord, d movement.Domain) map[world.HexCoord]float64 {
	dist := map[world.HexCoord]float64{start: 0}
	for changed := true; changed; {
		changed = false
		for c, g := range dist {
			from := m.Get(c)
			for _, n := range m.NeighborsOf(from) {
				step := movement.Cost(d, from, n)
				if math.IsInf(step, 1) {
					continue
				}
				if old, ok := dist[n.Coord]; !ok || g+step < old {
					dist[n.Coord] = g + step
					changed = true
				}
			}
		}
	}
	return dist
}

func TestReachableCells_Strip(t *testing.T) {
	p := New(stripMap(5), nil, nil)

	set := p.ReachableCells(hc(0, 0), 2, ReachOptions{})
	assert.Equal(t, ReachableSet{hc(0, 0): 0, hc(1, 0): 1, hc(2, 0): 2}, set)
	assert.Equal(t, []world.HexCoord{hc(0, 0), hc(1, 0), hc(2, 0)}, set.Coords())
	assert.True(t, set.Contains(hc(2, 0)))
	assert.False(t, set.Contains(hc(3, 0)))
	assert.True(t, math.IsInf(set.CostTo(hc(3, 0)), 1))
}

func TestReachableCells_ZeroAndDegenerateBudgets(t *testing.T) {
	p := New(stripMap(3), nil, nil)

	for _, budget := range []float64{0, -4, math.NaN(), 0.5} {
		set := p.ReachableCells(hc(1, 0), budget, ReachOptions{})
		assert.Equal(t, ReachableSet{hc(1, 0): 0}, set, "budget %v", budget)
	}

	assert.Empty(t, p.ReachableCells(hc(7, 7), 10, ReachOptions{}))
}

func TestReachableCells_Occupancy(t *testing.T) {
	m := stripMap(4)
	p := New(m, occupants{hc(1, 0): uuid.New()}, nil)

	set := p.ReachableCells(hc(0, 0), 10, ReachOptions{})
	assert.Equal(t, ReachableSet{hc(0, 0): 0}, set)

	set = p.ReachableCells(hc(0, 0), 10, ReachOptions{IgnoreOccupants: true})
	assert.Len(t, set, 4)
}

func TestReachableCells_StartAlwaysIncluded(t *testing.T) {
	// A land unit standing on water still reports its own cell.
	m := world.NewFilledMap(2, 1, world.TerrainCoast)
	m.CellAt(0, 0).Elevation = -1
	m.CellAt(1, 0).Elevation = -1
	p := New(m, nil, testResolver)

	set := p.ReachableCells(hc(0, 0), 5, ReachOptions{UnitType: "warrior"})
	assert.Equal(t, ReachableSet{hc(0, 0): 0}, set)

	set = p.ReachableCells(hc(0, 0), 5, ReachOptions{UnitType: "galley"})
	assert.Equal(t, ReachableSet{hc(0, 0): 0, hc(1, 0): 1}, set)
}

func TestReachableCells_MatchesBruteForce(t *testing.T) {
	cfg := world.SmallTestConfig()
	m := world.Generate(cfg)
	p := New(m, nil, nil)

	coords := sortedCoords(m)
	for _, d := range movement.Domains {
		for i := 0; i < len(coords); i += 11 {
			start := coords[i]
			truth := bruteForceCosts(m, start, d)
			for _, budget := range []float64{0, 1.5, 3, 6.5, 100} {
				set := p.ReachableCellsDomain(start, budget, d, ReachOptions{})

				want := ReachableSet{}
				for c, cost := range truth {
					if cost <= budget {
						want[c] = cost
					}
				}
				assert.Equal(t, want, set, "%s from %v budget %v", d, start, budget)
			}
		}
	}
}

func TestReachableCells_MonotoneInBudget(t *testing.T) {
	cfg := world.SmallTestConfig()
	m := world.Generate(cfg)
	p := New(m, nil, testResolver)

	start := sortedCoords(m)[len(m.Hexes)/2]
	prev := p.ReachableCells(start, 0, ReachOptions{UnitType: "marine"})
	for budget := 0.5; budget <= 12; budget += 0.5 {
		next := p.ReachableCells(start, budget, ReachOptions{UnitType: "marine"})
		for c, cost := range prev {
			require.True(t, next.Contains(c), "budget %v lost %v", budget, c)
			assert.Equal(t, cost, next[c])
		}
		for _, cost := range next {
			assert.LessOrEqual(t, cost, budget)
		}
		prev = next
	}
}

func TestReachableCells_AgreesWithFindPath(t *testing.T) {
	cfg := world.SmallTestConfig()
	m := world.Generate(cfg)
	p := New(m, nil, nil)

	start := sortedCoords(m)[len(m.Hexes)/2]
	set := p.ReachableCells(start, 8, ReachOptions{})
	for c, cost := range set {
		res := p.FindPath(start, c, PathOptions{})
		require.True(t, res.Reachable, "%v", c)
		assert.Equal(t, cost, res.Cost, "%v", c)
	}
}

func TestReachableSet_CoordsOrder(t *testing.T) {
	s := ReachableSet{
		hc(2, 0): 1,
		hc(0, 1): 1,
		hc(1, 0): 1,
		hc(0, 0): 0,
		hc(5, 5): 0.5,
	}
	assert.Equal(t, []world.HexCoord{hc(0, 0), hc(5, 5), hc(1, 0), hc(2, 0), hc(0, 1)}, s.Coords())
}
