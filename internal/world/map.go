package world

import (
	"fmt"

	"github.com/google/uuid"
)

// Map holds the complete hex grid. It is regenerated wholesale for a new
// map and never mutated by the pathfinding core.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Width  int               `json:"width"`
	Height int               `json:"height"`
}

// NewMap creates an empty map. Cells are laid out in axial rows:
// 0 <= q < width, 0 <= r < height.
func NewMap(width, height int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex, width*height),
		Width:  width,
		Height: height,
	}
}

// NewFilledMap creates a width x height map with every cell set to the
// given terrain at elevation 0.
func NewFilledMap(width, height int, terrain Terrain) *Map {
	m := NewMap(width, height)
	for r := 0; r < height; r++ {
		for q := 0; q < width; q++ {
			m.Set(&Hex{Coord: HexCoord{Q: q, R: r}, Terrain: terrain})
		}
	}
	return m
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// CellAt returns the hex at (q, r), or nil.
func (m *Map) CellAt(q, r int) *Hex {
	return m.Hexes[HexCoord{Q: q, R: r}]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate lies within the map rectangle.
func (m *Map) InBounds(coord HexCoord) bool {
	return coord.Q >= 0 && coord.Q < m.Width && coord.R >= 0 && coord.R < m.Height
}

// NeighborsOf returns the existing cells adjacent to h, in direction order.
func (m *Map) NeighborsOf(h *Hex) []*Hex {
	if h == nil {
		return nil
	}
	out := make([]*Hex, 0, 6)
	for _, nc := range h.Coord.Neighbors() {
		if n := m.Hexes[nc]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// UnitAt reports the occupant recorded on the cell at (q, r).
func (m *Map) UnitAt(q, r int) (uuid.UUID, bool) {
	h := m.CellAt(q, r)
	if h == nil || !h.Occupied() {
		return uuid.Nil, false
	}
	return h.Occupant, true
}

// ClearOccupants empties every cell's occupant field.
func (m *Map) ClearOccupants() {
	for _, h := range m.Hexes {
		h.Occupant = uuid.Nil
	}
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, hexes=%d)", m.Width, m.Height, m.HexCount())
}
