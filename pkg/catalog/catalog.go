// Package catalog holds the static registry of supported UV systems: lamp
// configuration and operating limits for each system type, keyed by
// Module-Model (e.g. "RZ-104-11"). The catalog is loaded once at startup and
// never mutated, so it is safe for unsynchronized concurrent reads.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Range is a single numeric operating bound with its unit.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// Contains reports whether v lies inside the range, inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds the per-system operating envelope.
type Ranges struct {
	Flow Range `json:"flow"`
	UVT  Range `json:"uvt"`
}

// System describes one supported UV unit.
type System struct {
	Type           string
	LampCount      int
	LampPowerWatts float64
	Limits         Ranges
}

// Catalog is the immutable set of supported systems.
type Catalog struct {
	systems map[string]System
}

// New builds a catalog from a list of systems, validating each entry.
func New(systems []System) (*Catalog, error) {
	if len(systems) == 0 {
		return nil, fmt.Errorf("catalog contains no systems")
	}

	m := make(map[string]System, len(systems))
	for _, s := range systems {
		if s.Type == "" {
			return nil, fmt.Errorf("catalog entry with empty system type")
		}
		if _, exists := m[s.Type]; exists {
			return nil, fmt.Errorf("duplicate system type in catalog: %s", s.Type)
		}
		if s.LampCount <= 0 {
			return nil, fmt.Errorf("system %s: lamp count must be positive, got %d", s.Type, s.LampCount)
		}
		if s.LampPowerWatts <= 0 {
			return nil, fmt.Errorf("system %s: lamp power must be positive, got %v", s.Type, s.LampPowerWatts)
		}
		if s.Limits.Flow.Min >= s.Limits.Flow.Max {
			return nil, fmt.Errorf("system %s: invalid flow range [%v, %v]", s.Type, s.Limits.Flow.Min, s.Limits.Flow.Max)
		}
		if s.Limits.UVT.Min >= s.Limits.UVT.Max {
			return nil, fmt.Errorf("system %s: invalid UVT range [%v, %v]", s.Type, s.Limits.UVT.Min, s.Limits.UVT.Max)
		}
		m[s.Type] = s
	}

	return &Catalog{systems: m}, nil
}

// System looks up a system by its type key.
func (c *Catalog) System(systemType string) (System, bool) {
	s, ok := c.systems[systemType]
	return s, ok
}

// Ranges returns the operating envelope for a system type.
func (c *Catalog) Ranges(systemType string) (Ranges, bool) {
	s, ok := c.systems[systemType]
	return s.Limits, ok
}

// SystemTypes returns all system type keys, sorted.
func (c *Catalog) SystemTypes() []string {
	types := make([]string, 0, len(c.systems))
	for t := range c.systems {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of systems in the catalog.
func (c *Catalog) Len() int {
	return len(c.systems)
}

// GroupedBySeries groups system types by product series for discovery
// clients. Prefix checks go longest-first so RZMW systems don't land in the
// RZM group. Empty groups are omitted and each group is sorted.
func (c *Catalog) GroupedBySeries() map[string][]string {
	groups := make(map[string][]string)
	for t := range c.systems {
		groups[seriesOf(t)] = append(groups[seriesOf(t)], t)
	}
	for _, g := range groups {
		sort.Strings(g)
	}
	return groups
}

func seriesOf(systemType string) string {
	switch {
	case strings.HasPrefix(systemType, "RZMW-"):
		return "RZMW Series"
	case strings.HasPrefix(systemType, "RZM-"):
		return "RZM Series"
	case strings.HasPrefix(systemType, "RZ-"):
		return "RZ Series"
	default:
		return "Other Series"
	}
}
