// World generation using layered simplex noise.
// Generates elevation, moisture, and temperature fields, then derives integer
// elevation levels, terrain, and river edges.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Elevation level bounds produced by Generate.
const (
	MinElevation = -3
	MaxElevation = 6
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width         int     // Columns (q)
	Height        int     // Rows (r)
	Seed          int64   // Random seed (0 = random)
	SeaLevel      float64 // Noise threshold for water (0.0–1.0)
	MountainLevel int     // Elevation level at and above which land is mountain
	Rivers        int     // Maximum number of rivers to trace
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:         64,
		Height:        48,
		Seed:          0,
		SeaLevel:      0.35,
		MountainLevel: 5,
		Rivers:        10,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:         12,
		Height:        10,
		Seed:          42,
		SeaLevel:      0.35,
		MountainLevel: 5,
		Rivers:        2,
	}
}

// Generate creates a complete map with elevation, terrain and rivers.
// The result is deterministic for a non-zero seed.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Width, cfg.Height)
	heights := make(map[HexCoord]float64, cfg.Width*cfg.Height)

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2
	span := math.Max(cx, cy)

	for r := 0; r < cfg.Height; r++ {
		for q := 0; q < cfg.Width; q++ {
			coord := HexCoord{Q: q, R: r}

			// Axial → cartesian for noise sampling.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
			temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

			// Continental shaping: sink the map edges into the sea.
			dx := (float64(q) - cx) / span
			dy := (float64(r) - cy) / span
			edgeFalloff := 1.0 - math.Pow(math.Sqrt(dx*dx+dy*dy), 3.5)
			if edgeFalloff < 0 {
				edgeFalloff = 0
			}
			elev *= edgeFalloff

			// Colder toward the top and bottom rows and at altitude.
			temp = temp*0.6 + (1.0-math.Abs(dy))*0.3 + (1.0-elev)*0.1

			level := elevationLevel(elev, cfg.SeaLevel)
			heights[coord] = elev

			m.Set(&Hex{
				Coord:     coord,
				Elevation: level,
				Terrain:   deriveTerrain(level, rain, temp, cfg),
			})
		}
	}

	// Post-pass: deep water next to land becomes shallow coast.
	markCoastalWater(m)

	// Post-pass: rivers flowing from high ground to the sea.
	placeRivers(m, heights, cfg, seed)

	return m
}

// elevationLevel quantizes normalized noise into integer levels; everything
// under sea level is negative.
func elevationLevel(elev, seaLevel float64) int {
	var level int
	if elev < seaLevel {
		level = -1 - int((seaLevel-elev)*12)
	} else {
		level = int((elev - seaLevel) * 12)
	}
	if level < MinElevation {
		level = MinElevation
	}
	if level > MaxElevation {
		level = MaxElevation
	}
	return level
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(level int, rain, temp float64, cfg GenConfig) Terrain {
	if level < 0 {
		if level == -1 {
			return TerrainCoast
		}
		return TerrainOcean
	}
	if level >= cfg.MountainLevel {
		return TerrainMountain
	}
	if temp < 0.22 {
		return TerrainSnow
	}
	if temp < 0.3 {
		return TerrainTundra
	}
	if rain < 0.25 && temp > 0.55 {
		return TerrainDesert
	}
	if rain > 0.7 && level <= 1 {
		return TerrainSwamp
	}
	if rain > 0.65 && temp > 0.6 {
		return TerrainJungle
	}
	if rain > 0.5 {
		return TerrainForest
	}
	if level >= 3 {
		return TerrainHills
	}
	if rain > 0.38 {
		return TerrainGrassland
	}
	return TerrainPlains
}

// markCoastalWater converts ocean hexes adjacent to land into coast.
func markCoastalWater(m *Map) {
	var toMark []*Hex

	for r := 0; r < m.Height; r++ {
		for q := 0; q < m.Width; q++ {
			hex := m.CellAt(q, r)
			if hex == nil || hex.Terrain != TerrainOcean {
				continue
			}
			for _, n := range m.NeighborsOf(hex) {
				if n.Elevation >= 0 {
					toMark = append(toMark, hex)
					break
				}
			}
		}
	}

	for _, hex := range toMark {
		hex.Terrain = TerrainCoast
	}
}

// placeRivers picks high-ground sources and traces each one downhill.
func placeRivers(m *Map, heights map[HexCoord]float64, cfg GenConfig, seed int64) {
	if cfg.Rivers <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed + 100))

	// Row order keeps the source list stable for a given seed.
	var sources []HexCoord
	for r := 0; r < m.Height; r++ {
		for q := 0; q < m.Width; q++ {
			hex := m.CellAt(q, r)
			if hex != nil && hex.Elevation >= 3 && hex.Elevation < cfg.MountainLevel {
				sources = append(sources, hex.Coord)
			}
		}
	}

	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > cfg.Rivers {
		sources = sources[:cfg.Rivers]
	}

	for _, start := range sources {
		traceRiver(m, heights, start)
	}
}

// traceRiver follows the steepest descent from a source hex, marking the
// crossed edge on each upstream cell, until it reaches water or a pit.
func traceRiver(m *Map, heights map[HexCoord]float64, start HexCoord) {
	current := start
	visited := make(map[HexCoord]bool)
	maxSteps := 64

	for step := 0; step < maxSteps; step++ {
		visited[current] = true
		hex := m.Get(current)
		if hex == nil || hex.Elevation < 0 {
			break
		}

		// Find lowest neighbor.
		bestDir := Direction(0)
		found := false
		bestElev := heights[current]

		for i, nc := range current.Neighbors() {
			if visited[nc] {
				continue
			}
			if m.Get(nc) == nil {
				continue
			}
			if h := heights[nc]; h < bestElev {
				bestElev = h
				bestDir = Direction(i)
				found = true
			}
		}

		if !found {
			break // No downhill path; the river ends in a pit.
		}
		hex.Rivers = hex.Rivers.With(bestDir)
		current = current.Neighbor(bestDir)
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}
