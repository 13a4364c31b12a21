// Package ship defines vessels, their templates and the derived stat block
// every other system reads.
package ship

import (
	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
)

// Type is a template key, e.g. "sloop".
type Type string

// Size is the hull size class; modifications may be restricted by it.
type Size string

const (
	SizeSmall      Size = "Small"
	SizeMedium     Size = "Medium"
	SizeLarge      Size = "Large"
	SizeHuge       Size = "Huge"
	SizeGargantuan Size = "Gargantuan"
)

// Flags carried on Ship.Flags.
const (
	FlagSunk     = "sunk"
	FlagMutinous = "mutinous"
	FlagStarving = "starving"
	FlagThirsty  = "thirsty"
)

// Stats is the numeric block a template provides and modifications adjust.
type Stats struct {
	Speed           float64 `json:"speed" yaml:"speed"` // feet per round
	Maneuverability int     `json:"maneuverability" yaml:"maneuverability"`
	HullPoints      int     `json:"hull_points" yaml:"hull_points"`
	MaxHullPoints   int     `json:"max_hull_points" yaml:"max_hull_points"`
	ArmorClass      int     `json:"armor_class" yaml:"armor_class"`
	CargoCapacity   float64 `json:"cargo_capacity" yaml:"cargo_capacity"` // tons
	CrewMin         int     `json:"crew_min" yaml:"crew_min"`
	CrewMax         int     `json:"crew_max" yaml:"crew_max"`
}

// StatKey names a field of Stats for modifiers.
type StatKey string

const (
	StatSpeed           StatKey = "speed"
	StatManeuverability StatKey = "maneuverability"
	StatHullPoints      StatKey = "hull_points"
	StatMaxHullPoints   StatKey = "max_hull_points"
	StatArmorClass      StatKey = "armor_class"
	StatCargoCapacity   StatKey = "cargo_capacity"
	StatCrewMin         StatKey = "crew_min"
	StatCrewMax         StatKey = "crew_max"
)

// Op is how a modifier combines with the stat.
type Op string

const (
	OpAdd      Op = "add"
	OpMultiply Op = "multiply"
)

// Modifier adjusts one stat.
type Modifier struct {
	Stat  StatKey `json:"stat" yaml:"stat"`
	Op    Op      `json:"operation" yaml:"operation"`
	Value float64 `json:"value" yaml:"value"`
}

// Modification is an installable upgrade. Empty Sizes means any hull.
type Modification struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Cost        float64    `json:"cost" yaml:"cost"`
	Modifiers   []Modifier `json:"modifiers" yaml:"modifiers"`
	Sizes       []Size     `json:"sizes,omitempty" yaml:"sizes,omitempty"`
}

// Weapon is a mounted siege weapon fired in broadsides.
type Weapon struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Damage      entropy.Dice `json:"damage" yaml:"damage"`
	AttackBonus int          `json:"attack_bonus" yaml:"attack_bonus"`
}

// Supplies are consumed daily at sea, in person-day rations.
type Supplies struct {
	Food  float64 `json:"food" yaml:"food"`
	Water float64 `json:"water" yaml:"water"`
}

// Cargo is what the hold carries.
type Cargo struct {
	Supplies   Supplies       `json:"supplies" yaml:"supplies"`
	Ammunition int            `json:"ammunition" yaml:"ammunition"`
	Goods      map[string]int `json:"goods,omitempty" yaml:"goods,omitempty"`
}

// Ship is a vessel instance. Stats holds the template base plus the current
// hull; CalculateStats derives what the ship can actually do.
type Ship struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Type          Type            `json:"type" yaml:"type"`
	Size          Size            `json:"size" yaml:"size"`
	Stats         Stats           `json:"stats" yaml:"stats"`
	Crew          crew.Crew       `json:"crew" yaml:"crew"`
	Cargo         Cargo           `json:"cargo" yaml:"cargo"`
	Modifications []Modification  `json:"modifications" yaml:"modifications"`
	Weapons       []Weapon        `json:"weapons" yaml:"weapons"`
	Flags         map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Sunk reports whether the ship has been destroyed.
func (s Ship) Sunk() bool {
	return s.Flags[FlagSunk]
}

// HasModification reports whether a modification id is installed.
func (s Ship) HasModification(id string) bool {
	for _, m := range s.Modifications {
		if m.ID == id {
			return true
		}
	}
	return false
}

// WithFlag returns a copy with the flag set or cleared.
func (s Ship) WithFlag(flag string, on bool) Ship {
	out := s.Clone()
	if on {
		if out.Flags == nil {
			out.Flags = make(map[string]bool)
		}
		out.Flags[flag] = true
	} else {
		delete(out.Flags, flag)
	}
	return out
}

// Clone returns a deep copy; no slice or map is shared with s.
func (s Ship) Clone() Ship {
	out := s
	out.Crew = s.Crew.Clone()
	if s.Cargo.Goods != nil {
		out.Cargo.Goods = make(map[string]int, len(s.Cargo.Goods))
		for k, v := range s.Cargo.Goods {
			out.Cargo.Goods[k] = v
		}
	}
	out.Modifications = nil
	if s.Modifications != nil {
		out.Modifications = make([]Modification, len(s.Modifications))
	}
	for i, m := range s.Modifications {
		m.Modifiers = append([]Modifier(nil), m.Modifiers...)
		m.Sizes = append([]Size(nil), m.Sizes...)
		out.Modifications[i] = m
	}
	out.Weapons = append([]Weapon(nil), s.Weapons...)
	if s.Flags != nil {
		out.Flags = make(map[string]bool, len(s.Flags))
		for k, v := range s.Flags {
			out.Flags[k] = v
		}
	}
	return out
}
