package world

import (
	"strings"

	"github.com/google/uuid"
)

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Open ground
	TerrainGrassland                // Open ground, wetter than plains
	TerrainForest
	TerrainHills
	TerrainMountain // Impassable on foot
	TerrainDesert
	TerrainTundra
	TerrainSnow
	TerrainSwamp
	TerrainJungle
	TerrainCoast // Shallow water bordering land
	TerrainOcean // Deep water

	terrainCount
)

var terrainNames = [terrainCount]string{
	"Plains", "Grassland", "Forest", "Hills", "Mountain", "Desert",
	"Tundra", "Snow", "Swamp", "Jungle", "Coast", "Ocean",
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	if t < terrainCount {
		return terrainNames[t]
	}
	return "Unknown"
}

func (t Terrain) String() string {
	return TerrainName(t)
}

// ParseTerrain resolves a terrain name, case-insensitively.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if strings.EqualFold(n, name) {
			return Terrain(i), true
		}
	}
	return 0, false
}

// IsWater reports whether the terrain is a water biome.
func (t Terrain) IsWater() bool {
	return t == TerrainCoast || t == TerrainOcean
}

// RiverEdges is a bitmask of the hex edges a river runs along.
type RiverEdges uint8

// Has reports whether a river exits across edge d.
func (e RiverEdges) Has(d Direction) bool {
	return e&(1<<(d%6)) != 0
}

// With returns e with edge d set.
func (e RiverEdges) With(d Direction) RiverEdges {
	return e | 1<<(d%6)
}

// Hex represents a single cell on the map.
// Elevation, terrain and rivers are written by map generation; Occupant is
// written by unit management. The pathfinding core only reads cells.
type Hex struct {
	Coord     HexCoord   `json:"coord"`
	Elevation int        `json:"elevation"` // Levels; negative is under water
	Terrain   Terrain    `json:"terrain"`
	Rivers    RiverEdges `json:"rivers"`
	Occupant  uuid.UUID  `json:"occupant"` // uuid.Nil when empty
}

// HasRiver reports whether a river exits this cell across edge d.
func (h *Hex) HasRiver(d Direction) bool {
	return h.Rivers.Has(d)
}

// Occupied reports whether a unit stands on this cell.
func (h *Hex) Occupied() bool {
	return h.Occupant != uuid.Nil
}
