package pathfind

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

// occupants is a map-backed Occupancy for tests.
type occupants map[world.HexCoord]uuid.UUID

func (o occupants) UnitAt(q, r int) (uuid.UUID, bool) {
	id, ok := o[world.HexCoord{Q: q, R: r}]
	return id, ok
}

var testResolver = movement.ResolverFunc(func(unitType string) movement.Domain {
	switch unitType {
	case "galley":
		return movement.Naval
	case "marine":
		return movement.Amphibious
	default:
		return movement.Land
	}
})

func hc(q, r int) world.HexCoord { return world.HexCoord{Q: q, R: r} }

// stripMap builds a single row of plains of the given width.
func stripMap(width int) *world.Map {
	return world.NewFilledMap(width, 1, world.TerrainPlains)
}

// requireValidPath checks adjacency and that the step costs add up.
func requireValidPath(t *testing.T, d movement.Domain, res PathResult) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	total := 0.0
	for i := 1; i < len(res.Path); i++ {
		require.Equal(t, 1, world.Distance(res.Path[i-1].Coord, res.Path[i].Coord), "step %d not adjacent", i)
		step := movement.Cost(d, res.Path[i-1], res.Path[i])
		require.False(t, math.IsInf(step, 1), "step %d impassable", i)
		total += step
	}
	assert.InDelta(t, res.Cost, total, 1e-9)
}

func TestNew_NilGridPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil, nil) })
}

func TestPathfinder_Domain(t *testing.T) {
	p := New(stripMap(1), nil, testResolver)
	assert.Equal(t, movement.Naval, p.Domain("galley"))
	assert.Equal(t, movement.Land, p.Domain(""))

	bare := New(stripMap(1), nil, nil)
	assert.Equal(t, movement.Land, bare.Domain("galley"))
}

func TestPathfinder_IsPassableForUnit(t *testing.T) {
	m := world.NewFilledMap(2, 1, world.TerrainPlains)
	m.CellAt(1, 0).Terrain = world.TerrainCoast
	m.CellAt(1, 0).Elevation = -1
	p := New(m, nil, testResolver)

	assert.True(t, p.IsPassableForUnit(hc(0, 0), "warrior"))
	assert.False(t, p.IsPassableForUnit(hc(1, 0), "warrior"))
	assert.True(t, p.IsPassableForUnit(hc(1, 0), "galley"))
	assert.True(t, p.IsPassableForUnit(hc(1, 0), "marine"))
	assert.False(t, p.IsPassableForUnit(hc(5, 5), "marine"))
}

func TestPathfinder_MovementCostForUnit(t *testing.T) {
	m := stripMap(3)
	m.CellAt(1, 0).Elevation = 1
	p := New(m, nil, testResolver)

	assert.Equal(t, 1.5, p.MovementCostForUnit(hc(0, 0), hc(1, 0), "warrior"))
	assert.Equal(t, 1.0, p.MovementCostForUnit(hc(1, 0), hc(2, 0), "warrior"))
	assert.True(t, math.IsInf(p.MovementCostForUnit(hc(0, 0), hc(2, 0), "warrior"), 1), "non-adjacent")
	assert.True(t, math.IsInf(p.MovementCostForUnit(hc(0, 0), hc(0, 0), "warrior"), 1), "same cell")
	assert.True(t, math.IsInf(p.MovementCostForUnit(hc(0, 0), hc(1, 0), "galley"), 1))
}
