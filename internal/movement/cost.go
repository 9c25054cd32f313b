package movement

import (
	"math"

	"github.com/talgya/hexroute/internal/world"
)

// Cost model constants.
const (
	UphillCostPerLevel = 0.5
	RiverCrossingCost  = 1.0
	CliffHeight        = 2   // |Δelevation| at or above this blocks land movement
	WaterFallbackCost  = 1.0 // naval cost for submerged cells without a table entry
)

// Impassable is the cost of a step that cannot be taken.
var Impassable = math.Inf(1)

var landCosts = [...]float64{
	world.TerrainPlains:    1.0,
	world.TerrainGrassland: 1.0,
	world.TerrainForest:    1.5,
	world.TerrainHills:     2.0,
	world.TerrainMountain:  math.Inf(1),
	world.TerrainDesert:    1.5,
	world.TerrainTundra:    1.5,
	world.TerrainSnow:      2.0,
	world.TerrainSwamp:     2.5,
	world.TerrainJungle:    2.0,
	world.TerrainCoast:     math.Inf(1),
	world.TerrainOcean:     math.Inf(1),
}

var navalCosts = [...]float64{
	world.TerrainPlains:    math.Inf(1),
	world.TerrainGrassland: math.Inf(1),
	world.TerrainForest:    math.Inf(1),
	world.TerrainHills:     math.Inf(1),
	world.TerrainMountain:  math.Inf(1),
	world.TerrainDesert:    math.Inf(1),
	world.TerrainTundra:    math.Inf(1),
	world.TerrainSnow:      math.Inf(1),
	world.TerrainSwamp:     math.Inf(1),
	world.TerrainJungle:    math.Inf(1),
	world.TerrainCoast:     1.0,
	world.TerrainOcean:     1.0,
}

// LandBaseCost returns the table cost of entering terrain t on land.
func LandBaseCost(t world.Terrain) float64 {
	if int(t) >= len(landCosts) {
		return Impassable
	}
	return landCosts[t]
}

// NavalBaseCost returns the table cost of entering terrain t by sea.
func NavalBaseCost(t world.Terrain) float64 {
	if int(t) >= len(navalCosts) {
		return Impassable
	}
	return navalCosts[t]
}

// Cost returns the directed cost of moving from one cell into an adjacent
// cell under domain d. +Inf means the step is impossible.
func Cost(d Domain, from, to *world.Hex) float64 {
	switch d {
	case Land:
		return LandCost(from, to)
	case Naval:
		return NavalCost(from, to)
	case Amphibious:
		return AmphibiousCost(from, to)
	default:
		return Impassable
	}
}

// LandCost is the directed land-domain step cost.
func LandCost(from, to *world.Hex) float64 {
	if from == nil || to == nil || to.Elevation < 0 {
		return Impassable
	}
	base := LandBaseCost(to.Terrain)
	if math.IsInf(base, 1) {
		return Impassable
	}

	delta := to.Elevation - from.Elevation
	if delta >= CliffHeight || delta <= -CliffHeight {
		return Impassable
	}
	if delta > 0 {
		base += float64(delta) * UphillCostPerLevel
	}
	if CrossesRiver(from, to) {
		base += RiverCrossingCost
	}
	return base
}

// NavalCost is the directed naval-domain step cost.
func NavalCost(from, to *world.Hex) float64 {
	if from == nil || to == nil || !isWater(to) {
		return Impassable
	}
	base := NavalBaseCost(to.Terrain)
	if math.IsInf(base, 1) && to.Elevation < 0 {
		return WaterFallbackCost
	}
	return base
}

// AmphibiousCost is the cheaper of the land and naval costs for this one
// edge; the unit may change domain at every step.
func AmphibiousCost(from, to *world.Hex) float64 {
	return math.Min(LandCost(from, to), NavalCost(from, to))
}

// CrossesRiver reports whether the edge between two adjacent cells carries
// a river, declared on either side.
func CrossesRiver(from, to *world.Hex) bool {
	dir, ok := from.Coord.DirectionTo(to.Coord)
	if !ok {
		return false
	}
	return from.HasRiver(dir) || to.HasRiver(dir.Opposite())
}

func isWater(h *world.Hex) bool {
	return h.Elevation < 0 || h.Terrain.IsWater()
}
