// Package units tracks unit types, their movement domains, and where units
// stand on the map. It serves the pathfinder as both the unit-type resolver
// and the occupancy oracle.
package units

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/world"
)

var (
	ErrUnknownType = errors.New("unknown unit type")
	ErrUnknownUnit = errors.New("unknown unit")
	ErrOccupied    = errors.New("hex occupied")
)

// DefaultTypes is the built-in unit roster.
var DefaultTypes = map[string]movement.Domain{
	"warrior":    movement.Land,
	"settler":    movement.Land,
	"scout":      movement.Land,
	"cavalry":    movement.Land,
	"galley":     movement.Naval,
	"frigate":    movement.Naval,
	"transport":  movement.Naval,
	"marine":     movement.Amphibious,
	"hovercraft": movement.Amphibious,
}

// Unit is a placed unit.
type Unit struct {
	ID       uuid.UUID      `json:"id"`
	Type     string         `json:"type"`
	Position world.HexCoord `json:"position"`
}

// Registry holds unit types and placements. Methods are safe for concurrent
// use, but searches read it without holding its lock for their whole run;
// do not move units while a search is in flight.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]movement.Domain
	units     map[uuid.UUID]*Unit
	positions map[world.HexCoord]uuid.UUID
}

// NewRegistry creates a registry preloaded with DefaultTypes.
func NewRegistry() *Registry {
	r := &Registry{
		types:     make(map[string]movement.Domain, len(DefaultTypes)),
		units:     make(map[uuid.UUID]*Unit),
		positions: make(map[world.HexCoord]uuid.UUID),
	}
	for name, d := range DefaultTypes {
		r.types[name] = d
	}
	return r
}

// RegisterType adds or replaces a unit type.
func (r *Registry) RegisterType(name string, d movement.Domain) error {
	if !d.Valid() {
		return fmt.Errorf("register %q: invalid domain %d", name, d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = d
	return nil
}

// LookupType returns the domain of a registered unit type.
func (r *Registry) LookupType(name string) (movement.Domain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[name]
	return d, ok
}

// DomainOf implements movement.Resolver. Unknown types move on land.
func (r *Registry) DomainOf(unitType string) movement.Domain {
	d, ok := r.LookupType(unitType)
	if !ok {
		return movement.Land
	}
	return d
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Place puts a new unit of the given type at a free hex.
func (r *Registry) Place(unitType string, at world.HexCoord) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[unitType]; !ok {
		return uuid.Nil, fmt.Errorf("place %q: %w", unitType, ErrUnknownType)
	}
	if _, taken := r.positions[at]; taken {
		return uuid.Nil, fmt.Errorf("place %q at %v: %w", unitType, at, ErrOccupied)
	}
	u := &Unit{ID: uuid.New(), Type: unitType, Position: at}
	r.units[u.ID] = u
	r.positions[at] = u.ID
	return u.ID, nil
}

// Move relocates a unit to a free hex.
func (r *Registry) Move(id uuid.UUID, to world.HexCoord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[id]
	if !ok {
		return fmt.Errorf("move %s: %w", id, ErrUnknownUnit)
	}
	if u.Position == to {
		return nil
	}
	if _, taken := r.positions[to]; taken {
		return fmt.Errorf("move %s to %v: %w", id, to, ErrOccupied)
	}
	delete(r.positions, u.Position)
	u.Position = to
	r.positions[to] = id
	return nil
}

// Remove deletes a unit.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownUnit)
	}
	delete(r.positions, u.Position)
	delete(r.units, id)
	return nil
}

// Get returns a copy of a unit.
func (r *Registry) Get(id uuid.UUID) (Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// UnitAt implements the pathfinder's occupancy oracle.
func (r *Registry) UnitAt(q, rr int) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.positions[world.HexCoord{Q: q, R: rr}]
	return id, ok
}

// Units returns copies of all units ordered by ID.
func (r *Registry) Units() []Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Restore replaces all placements, e.g. after loading from storage.
// Units of unregistered types or on already taken hexes are rejected.
func (r *Registry) Restore(list []Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	units := make(map[uuid.UUID]*Unit, len(list))
	positions := make(map[world.HexCoord]uuid.UUID, len(list))
	for _, u := range list {
		if _, ok := r.types[u.Type]; !ok {
			return fmt.Errorf("restore unit %s %q: %w", u.ID, u.Type, ErrUnknownType)
		}
		if _, taken := positions[u.Position]; taken {
			return fmt.Errorf("restore unit %s at %v: %w", u.ID, u.Position, ErrOccupied)
		}
		units[u.ID] = &u
		positions[u.Position] = u.ID
	}
	r.units = units
	r.positions = positions
	return nil
}

// Sync writes current placements into the map's cell occupant fields.
func (r *Registry) Sync(m *world.Map) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m.ClearOccupants()
	for pos, id := range r.positions {
		if h := m.Get(pos); h != nil {
			h.Occupant = id
		}
	}
}
