// Package naval resolves turn-based ship-to-ship combat: range bands,
// cooldown-gated maneuvers, damage, and timed status effects.
package naval

import (
	"maps"
	"math"
	"slices"

	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
)

// Range is a discretized distance band between two ships.
type Range string

const (
	RangeBoarding Range = "boarding"
	RangeShort    Range = "short"
	RangeMedium   Range = "medium"
	RangeLong     Range = "long"
)

// Range thresholds in feet.
const (
	BoardingRange = 100.0
	ShortRange    = 1000.0
	MediumRange   = 3000.0

	StartingDistance = 2000.0
)

// RangeCategory buckets a distance in feet.
func RangeCategory(distance float64) Range {
	switch {
	case distance <= BoardingRange:
		return RangeBoarding
	case distance <= ShortRange:
		return RangeShort
	case distance <= MediumRange:
		return RangeMedium
	default:
		return RangeLong
	}
}

// EffectStat is what an effect modifies. Empty marks a pure status.
type EffectStat string

const (
	EffectSpeed           EffectStat = "speed"           // multiplier
	EffectArmorClass      EffectStat = "armor_class"     // additive
	EffectManeuverability EffectStat = "maneuverability" // additive
)

// EffectGrappled is the status id shared by two grappled ships.
const EffectGrappled = "grappled"

// Effect is an active timed status on a ship.
type Effect struct {
	ID        string     `json:"id"`
	Stat      EffectStat `json:"stat,omitempty"`
	Value     float64    `json:"value"`
	Remaining int        `json:"remaining"` // rounds
	Source    string     `json:"source,omitempty"`
}

// Position is a point on the battle plane, in feet.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CombatShip is one ship's combat snapshot.
type CombatShip struct {
	Ship              ship.Ship         `json:"ship"`
	CurrentSpeed      float64           `json:"current_speed"`
	CurrentHullPoints int               `json:"current_hull_points"`
	MaxHullPoints     int               `json:"max_hull_points"`
	CurrentCrew       int               `json:"current_crew"`
	BaseManeuver      int               `json:"maneuverability"`
	BaseArmorClass    int               `json:"armor_class"`
	Ammunition        int               `json:"ammunition"`
	Effects           map[string]Effect `json:"effects"`
	Cooldowns         map[string]int    `json:"cooldowns"`
	Position          Position          `json:"position"`
	Heading           float64           `json:"heading"` // degrees
	Destroyed         bool              `json:"destroyed"`
}

// State is a battle in progress.
type State struct {
	Ships         map[string]*CombatShip `json:"ships"`
	Order         []string               `json:"order"`
	Round         int                    `json:"round"`
	WindDirection float64                `json:"wind_direction"`
	WindSpeed     float64                `json:"wind_speed"` // knots
	Log           []logbook.Entry        `json:"log"`
}

func (c *CombatShip) effects() []Effect {
	keys := slices.Sorted(maps.Keys(c.Effects))
	out := make([]Effect, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.Effects[k])
	}
	return out
}

// Speed is the effective speed in feet per round.
func (c *CombatShip) Speed() float64 {
	v := c.CurrentSpeed
	for _, e := range c.effects() {
		if e.Stat == EffectSpeed {
			v *= e.Value
		}
	}
	return math.Max(0, v)
}

// ArmorClass is the effective armor class.
func (c *CombatShip) ArmorClass() int {
	v := c.BaseArmorClass
	for _, e := range c.effects() {
		if e.Stat == EffectArmorClass {
			v += int(e.Value)
		}
	}
	return v
}

// Maneuverability is the effective steering modifier.
func (c *CombatShip) Maneuverability() int {
	v := c.BaseManeuver
	for _, e := range c.effects() {
		if e.Stat == EffectManeuverability {
			v += int(e.Value)
		}
	}
	return v
}

// Grappled reports whether the ship is locked to another.
func (c *CombatShip) Grappled() bool {
	_, ok := c.Effects[EffectGrappled]
	return ok
}

// applyEffect adds an effect or refreshes its duration.
func (c *CombatShip) applyEffect(e Effect) {
	if c.Effects == nil {
		c.Effects = make(map[string]Effect)
	}
	if cur, ok := c.Effects[e.ID]; ok && cur.Remaining > e.Remaining {
		e.Remaining = cur.Remaining
	}
	c.Effects[e.ID] = e
}

func (c *CombatShip) clone() *CombatShip {
	out := *c
	out.Ship = c.Ship.Clone()
	out.Effects = maps.Clone(c.Effects)
	out.Cooldowns = maps.Clone(c.Cooldowns)
	return &out
}

// Clone returns a deep copy of the battle.
func (s State) Clone() State {
	out := s
	out.Ships = make(map[string]*CombatShip, len(s.Ships))
	for id, c := range s.Ships {
		out.Ships[id] = c.clone()
	}
	out.Order = slices.Clone(s.Order)
	out.Log = slices.Clone(s.Log)
	return out
}

// Distance is the gap between two ships in feet.
func (s State) Distance(a, b string) float64 {
	sa, sb := s.Ships[a], s.Ships[b]
	if sa == nil || sb == nil {
		return math.Inf(1)
	}
	return math.Hypot(sb.Position.X-sa.Position.X, sb.Position.Y-sa.Position.Y)
}

// Alive lists ships still afloat, in turn order.
func (s State) Alive() []string {
	var out []string
	for _, id := range s.Order {
		if c := s.Ships[id]; c != nil && !c.Destroyed {
			out = append(out, id)
		}
	}
	return out
}

// Over reports whether at most one ship is still fighting.
func (s State) Over() bool {
	return len(s.Alive()) <= 1
}

// Winner returns the last ship afloat, if the battle is over and one is.
func (s State) Winner() (string, bool) {
	alive := s.Alive()
	if len(alive) != 1 {
		return "", false
	}
	return alive[0], true
}

// Ship returns the combatant's ship with battle damage written back:
// hull, hands lost, shot spent, and the sunk flag.
func (s State) Ship(id string) (ship.Ship, bool) {
	c := s.Ships[id]
	if c == nil {
		return ship.Ship{}, false
	}
	out := c.Ship.Clone()
	out.Stats.HullPoints = c.CurrentHullPoints
	out.Cargo.Ammunition = c.Ammunition
	for out.Crew.Count() > c.CurrentCrew {
		last := out.Crew.Members[out.Crew.Count()-1]
		out.Crew = out.Crew.Remove(last.ID)
	}
	if c.Destroyed {
		out = out.WithFlag(ship.FlagSunk, true)
	}
	return out, true
}
