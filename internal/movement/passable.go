package movement

import (
	"math"

	"github.com/talgya/hexroute/internal/world"
)

// Passable reports whether a unit of domain d can stand on cell at all,
// ignoring the edge it arrives through. Callers use it to filter candidate
// targets before computing any cost.
func Passable(d Domain, cell *world.Hex) bool {
	if cell == nil {
		return false
	}
	switch d {
	case Land:
		return landPassable(cell)
	case Naval:
		return isWater(cell)
	case Amphibious:
		return landPassable(cell) || isWater(cell)
	default:
		return false
	}
}

func landPassable(cell *world.Hex) bool {
	return cell.Elevation >= 0 && !math.IsInf(LandBaseCost(cell.Terrain), 1)
}

// PassableStep reports whether the directed step from -> to has a finite
// cost under domain d.
func PassableStep(d Domain, from, to *world.Hex) bool {
	return !math.IsInf(Cost(d, from, to), 1)
}

// CostForUnit resolves unitType through r and returns the step cost.
func CostForUnit(r Resolver, unitType string, from, to *world.Hex) float64 {
	return Cost(Resolve(r, unitType), from, to)
}

// PassableForUnit resolves unitType through r and checks the cell.
func PassableForUnit(r Resolver, unitType string, cell *world.Hex) bool {
	return Passable(Resolve(r, unitType), cell)
}

// DefaultCost is the land-domain step cost, for callers that predate
// unit domains.
func DefaultCost(from, to *world.Hex) float64 {
	return LandCost(from, to)
}

// DefaultPassable is the land-domain cell predicate.
func DefaultPassable(cell *world.Hex) bool {
	return Passable(Land, cell)
}
