// Package world provides the hex grid, terrain, and spatial data structures.
// Uses axial coordinates (q, r) for the hex grid; the third cube coordinate
// is always derived.
package world

import (
	"fmt"
	"math"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// Direction indexes one of the six hex edges in rotational order.
type Direction uint8

const (
	DirE Direction = iota
	DirNE
	DirNW
	DirW
	DirSW
	DirSE
)

// HexNeighborDirections defines the six neighbor offsets in axial coordinates,
// indexed by Direction.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

// Next returns the following direction in rotational order.
func (d Direction) Next() Direction {
	return (d + 1) % 6
}

func (d Direction) String() string {
	switch d {
	case DirE:
		return "E"
	case DirNE:
		return "NE"
	case DirNW:
		return "NW"
	case DirW:
		return "W"
	case DirSW:
		return "SW"
	case DirSE:
		return "SE"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Neighbor returns the coordinate adjacent across edge d.
func (h HexCoord) Neighbor(d Direction) HexCoord {
	off := HexNeighborDirections[d%6]
	return HexCoord{Q: h.Q + off.Q, R: h.R + off.R}
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// DirectionTo returns the edge from h to an adjacent coordinate.
// ok is false when to is not a neighbor of h.
func (h HexCoord) DirectionTo(to HexCoord) (Direction, bool) {
	dq, dr := to.Q-h.Q, to.R-h.R
	for i, dir := range HexNeighborDirections {
		if dir.Q == dq && dir.R == dr {
			return Direction(i), true
		}
	}
	return 0, false
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// World-space hex dimensions (pointy top).
const (
	OuterRadius   = 1.0
	InnerRadius   = OuterRadius * 0.8660254037844386 // sqrt(3)/2
	ElevationStep = 0.25
)

// ToWorld projects a coordinate and elevation level to world space.
// y is up; the grid lies in the x/z plane.
func ToWorld(c HexCoord, elevation int) (x, y, z float64) {
	x = (float64(c.Q) + float64(c.R)*0.5) * (InnerRadius * 2)
	y = float64(elevation) * ElevationStep
	z = float64(c.R) * (OuterRadius * 1.5)
	return
}

// FromWorld returns the hex containing the world-space point (x, z).
// Elevation is ignored.
func FromWorld(x, z float64) HexCoord {
	r := z / (OuterRadius * 1.5)
	q := x/(InnerRadius*2) - r*0.5
	return CubeRound(q, r, -q-r)
}

// CubeRound snaps fractional cube coordinates to the nearest hex.
// Each component is rounded on its own; the one with the largest rounding
// error is then recomputed from the other two so that q+r+s stays zero.
func CubeRound(q, r, s float64) HexCoord {
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	}
	return HexCoord{Q: int(rq), R: int(rr)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
