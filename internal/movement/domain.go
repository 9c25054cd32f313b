// Package movement holds the terrain traversal cost model: per-domain base
// cost tables, elevation and river modifiers, and passability predicates.
package movement

import (
	"fmt"
	"strings"
)

// Domain is a unit's mobility class. The set is closed; every switch over
// Domain in this package handles all three values.
type Domain uint8

const (
	Land Domain = iota
	Naval
	Amphibious
)

// Domains lists every domain in declaration order.
var Domains = [...]Domain{Land, Naval, Amphibious}

func (d Domain) String() string {
	switch d {
	case Land:
		return "land"
	case Naval:
		return "naval"
	case Amphibious:
		return "amphibious"
	default:
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the declared domains.
func (d Domain) Valid() bool {
	return d <= Amphibious
}

// ParseDomain resolves a domain name, case-insensitively.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "land":
		return Land, nil
	case "naval":
		return Naval, nil
	case "amphibious":
		return Amphibious, nil
	}
	return 0, fmt.Errorf("unknown domain %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Domain) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid domain %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Domain) UnmarshalText(b []byte) error {
	v, err := ParseDomain(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Resolver maps a unit type to its domain. The registry of unit types lives
// outside the cost model.
type Resolver interface {
	DomainOf(unitType string) Domain
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(unitType string) Domain

// DomainOf calls f.
func (f ResolverFunc) DomainOf(unitType string) Domain {
	return f(unitType)
}

// Resolve returns the domain for unitType, defaulting to Land when either
// the resolver or the unit type is absent.
func Resolve(r Resolver, unitType string) Domain {
	if r == nil || unitType == "" {
		return Land
	}
	return r.DomainOf(unitType)
}
