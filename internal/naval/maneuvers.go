package naval

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/lookup"
)

// Type classifies a maneuver.
type Type string

const (
	Offensive Type = "offensive"
	Defensive Type = "defensive"
	Movement  Type = "movement"
	Special   Type = "special"
)

// Kind selects how a maneuver's result is resolved.
type Kind string

const (
	KindBuff    Kind = "buff"    // status effects only
	KindMove    Kind = "move"    // change distance to the target
	KindAttack  Kind = "attack"  // weapons or flat dice against the target
	KindRam     Kind = "ram"     // hull to hull, both ships take damage
	KindGrapple Kind = "grapple" // lock both ships together
	KindRepair  Kind = "repair"  // restore hull
)

// ErrUnknownManeuver is returned for ids missing from the catalog.
var ErrUnknownManeuver = errors.New("unknown maneuver")

// RamModification is the modification id that strengthens a ram.
const RamModification = "ram"

// Requirements gate whether a maneuver may be attempted.
type Requirements struct {
	Target       bool      `json:"target,omitempty" yaml:"target,omitempty"`
	MinCrew      int       `json:"min_crew,omitempty" yaml:"min_crew,omitempty"`
	RequiredRole crew.Role `json:"required_role,omitempty" yaml:"required_role,omitempty"`
	Ranges       []Range   `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Ammo         int       `json:"ammo,omitempty" yaml:"ammo,omitempty"`
}

// EffectSpec describes an effect a result applies.
type EffectSpec struct {
	ID       string     `json:"id" yaml:"id"`
	Stat     EffectStat `json:"stat,omitempty" yaml:"stat,omitempty"`
	Value    float64    `json:"value,omitempty" yaml:"value,omitempty"`
	Duration int        `json:"duration" yaml:"duration"`
}

func (e EffectSpec) effect(source string) Effect {
	return Effect{ID: e.ID, Stat: e.Stat, Value: e.Value, Remaining: e.Duration, Source: source}
}

// Result is the data a maneuver resolves on success or failure.
type Result struct {
	Dice       entropy.Dice `json:"dice,omitempty" yaml:"dice,omitempty"`
	Weapons    bool         `json:"weapons,omitempty" yaml:"weapons,omitempty"`
	Approach   float64      `json:"approach,omitempty" yaml:"approach,omitempty"` // multiples of speed; negative opens
	Self       *EffectSpec  `json:"self,omitempty" yaml:"self,omitempty"`
	Target     *EffectSpec  `json:"target,omitempty" yaml:"target,omitempty"`
	SelfDamage entropy.Dice `json:"self_damage,omitempty" yaml:"self_damage,omitempty"`
	Message    string       `json:"message" yaml:"message"`
}

// Maneuver is one catalog entry.
type Maneuver struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Type         Type         `json:"type" yaml:"type"`
	Kind         Kind         `json:"kind" yaml:"kind"`
	Requirements Requirements `json:"requirements" yaml:"requirements"`
	Cooldown     int          `json:"cooldown" yaml:"cooldown"`
	Difficulty   int          `json:"difficulty" yaml:"difficulty"`
	Success      Result       `json:"success" yaml:"success"`
	Failure      Result       `json:"failure" yaml:"failure"`
}

// AllowsRange reports whether the maneuver may be used at the band.
func (m Maneuver) AllowsRange(r Range) bool {
	return len(m.Requirements.Ranges) == 0 || slices.Contains(m.Requirements.Ranges, r)
}

// NeedsTarget reports whether the maneuver acts on another ship.
func (m Maneuver) NeedsTarget() bool {
	switch m.Kind {
	case KindMove, KindAttack, KindRam, KindGrapple:
		return true
	}
	return m.Requirements.Target
}

// Maneuvers is a catalog keyed by id.
type Maneuvers map[string]Maneuver

// Get returns a maneuver or ErrUnknownManeuver with a suggestion.
func (m Maneuvers) Get(id string) (Maneuver, error) {
	if man, ok := m[id]; ok {
		return man, nil
	}
	return Maneuver{}, fmt.Errorf("%w %q%s", ErrUnknownManeuver, id, lookup.Hint(id, m.IDs()))
}

// IDs returns the catalog ids, sorted.
func (m Maneuvers) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var (
	firingRanges = []Range{RangeShort, RangeMedium}
	anyRange     = []Range{RangeBoarding, RangeShort, RangeMedium, RangeLong}
)

// DefaultManeuvers is the built-in maneuver catalog.
var DefaultManeuvers = Maneuvers{
	"full_sail": {
		ID: "full_sail", Name: "Full Sail", Type: Movement, Kind: KindBuff,
		Description: "Crowd on every scrap of canvas.",
		Cooldown:    2, Difficulty: 8,
		Requirements: Requirements{MinCrew: 2},
		Success: Result{
			Self:    &EffectSpec{ID: "full_sail", Stat: EffectSpeed, Value: 1.5, Duration: 2},
			Message: "sails crack taut and the ship surges ahead",
		},
		Failure: Result{Message: "the sails luff and flap uselessly"},
	},
	"evasive_action": {
		ID: "evasive_action", Name: "Evasive Action", Type: Defensive, Kind: KindBuff,
		Description: "Zigzag to spoil the enemy's aim.",
		Cooldown:    1, Difficulty: 10,
		Requirements: Requirements{MinCrew: 2},
		Success: Result{
			Self:    &EffectSpec{ID: "evasive_action", Stat: EffectArmorClass, Value: 3, Duration: 2},
			Message: "the ship jinks hard, presenting a difficult target",
		},
		Failure: Result{Message: "the helm answers sluggishly"},
	},
	"close_distance": {
		ID: "close_distance", Name: "Close Distance", Type: Movement, Kind: KindMove,
		Cooldown: 0, Difficulty: 5,
		Requirements: Requirements{Target: true, Ranges: []Range{RangeShort, RangeMedium, RangeLong}},
		Success:      Result{Approach: 10, Message: "the ship bears down on its quarry"},
		Failure:      Result{Approach: 3, Message: "a poor tack gains little ground"},
	},
	"open_distance": {
		ID: "open_distance", Name: "Open Distance", Type: Movement, Kind: KindMove,
		Cooldown: 0, Difficulty: 7,
		Requirements: Requirements{Target: true, Ranges: anyRange},
		Success:      Result{Approach: -10, Message: "the ship claws away to windward"},
		Failure:      Result{Approach: -3, Message: "the ship barely pulls clear"},
	},
	"broadside": {
		ID: "broadside", Name: "Broadside", Type: Offensive, Kind: KindAttack,
		Description: "Fire every gun that bears.",
		Cooldown:    1, Difficulty: 10,
		Requirements: Requirements{Target: true, MinCrew: 4, RequiredRole: crew.RoleGunner, Ranges: firingRanges, Ammo: 2},
		Success:      Result{Weapons: true, Dice: entropy.D(2, 6), Message: "the guns roar"},
		Failure:      Result{Message: "the volley falls short"},
	},
	"chain_shot": {
		ID: "chain_shot", Name: "Chain Shot", Type: Offensive, Kind: KindAttack,
		Description: "Chained balls to shred the enemy's rigging.",
		Cooldown:    3, Difficulty: 13,
		Requirements: Requirements{Target: true, MinCrew: 4, RequiredRole: crew.RoleGunner, Ranges: []Range{RangeShort}, Ammo: 2},
		Success: Result{
			Dice:    entropy.D(2, 6),
			Target:  &EffectSpec{ID: "torn_rigging", Stat: EffectSpeed, Value: 0.5, Duration: 2},
			Message: "chain shot scythes through the rigging",
		},
		Failure: Result{Message: "the chain shot whirls harmlessly overhead"},
	},
	"ram": {
		ID: "ram", Name: "Ram", Type: Offensive, Kind: KindRam,
		Cooldown: 3, Difficulty: 14,
		Requirements: Requirements{Target: true, MinCrew: 4, Ranges: []Range{RangeBoarding, RangeShort}},
		Success:      Result{Dice: entropy.D(4, 10), SelfDamage: entropy.D(1, 10), Message: "timbers shatter as the bows strike home"},
		Failure:      Result{SelfDamage: entropy.D(2, 8), Message: "the ram glances off and the bows take the worst of it"},
	},
	"grapple": {
		ID: "grapple", Name: "Grapple", Type: Special, Kind: KindGrapple,
		Cooldown: 2, Difficulty: 12,
		Requirements: Requirements{Target: true, MinCrew: 6, Ranges: []Range{RangeBoarding}},
		Success: Result{
			Self:    &EffectSpec{ID: EffectGrappled, Duration: 3},
			Target:  &EffectSpec{ID: EffectGrappled, Duration: 3},
			Message: "grappling hooks bite and the hulls grind together",
		},
		Failure: Result{Message: "the grapnels fall into the sea"},
	},
	"emergency_repairs": {
		ID: "emergency_repairs", Name: "Emergency Repairs", Type: Special, Kind: KindRepair,
		Cooldown: 4, Difficulty: 12,
		Requirements: Requirements{MinCrew: 2, RequiredRole: crew.RoleCarpenter},
		Success:      Result{Dice: entropy.D(3, 10), Message: "the carpenter's crew patches the worst holes"},
		Failure:      Result{Message: "the patches will not hold"},
	},
}

// ramBonus is added to a successful ram by a ship fitted with one.
var ramBonus = entropy.D(2, 10)
