package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	require.Equal(t, cfg.Width*cfg.Height, a.HexCount())
	require.Equal(t, a.HexCount(), b.HexCount())
	for c, h := range a.Hexes {
		other := b.Get(c)
		require.NotNil(t, other, "missing %v", c)
		assert.Equal(t, *h, *other, "cell %v", c)
	}
}

func TestGenerate_CellInvariants(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	m := Generate(cfg)

	for c, h := range m.Hexes {
		assert.True(t, m.InBounds(c))
		assert.GreaterOrEqual(t, h.Elevation, MinElevation)
		assert.LessOrEqual(t, h.Elevation, MaxElevation)

		// Water biomes are exactly the submerged cells.
		assert.Equal(t, h.Elevation < 0, h.Terrain.IsWater(), "cell %v: elev %d terrain %v", c, h.Elevation, h.Terrain)

		if h.Terrain == TerrainMountain {
			assert.GreaterOrEqual(t, h.Elevation, cfg.MountainLevel)
		}

		// Rivers run from land along edges that lead to existing cells.
		for d := Direction(0); d < 6; d++ {
			if !h.HasRiver(d) {
				continue
			}
			assert.GreaterOrEqual(t, h.Elevation, 0, "river on water cell %v", c)
			assert.NotNil(t, m.Get(c.Neighbor(d)), "river off the map at %v", c)
		}
	}
}

func TestGenerate_CoastBordersLand(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	m := Generate(cfg)

	for _, h := range m.Hexes {
		if h.Terrain != TerrainOcean {
			continue
		}
		for _, n := range m.NeighborsOf(h) {
			assert.Less(t, n.Elevation, 0, "ocean %v touches land %v", h.Coord, n.Coord)
		}
	}
}

func TestElevationLevel(t *testing.T) {
	assert.Equal(t, 0, elevationLevel(0.35, 0.35))
	assert.Equal(t, -1, elevationLevel(0.34, 0.35))
	assert.Equal(t, MinElevation, elevationLevel(-5, 0.35))
	assert.Equal(t, MaxElevation, elevationLevel(5, 0.35))
}
