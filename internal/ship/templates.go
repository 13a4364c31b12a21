package ship

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/lookup"
)

// ErrUnknownType is returned when no template matches a ship type.
var ErrUnknownType = errors.New("unknown ship type")

// Template is a catalog entry ships are built from.
type Template struct {
	Type        Type     `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Size        Size     `json:"size" yaml:"size"`
	Description string   `json:"description" yaml:"description"`
	Stats       Stats    `json:"stats" yaml:"stats"`
	Weapons     []string `json:"weapons,omitempty" yaml:"weapons,omitempty"` // weapon ids
}

// Templates is a template catalog keyed by type.
type Templates map[Type]Template

// Types returns the catalog keys, sorted.
func (t Templates) Types() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

// Create builds a fresh ship from the template for typ: full hull, no crew,
// empty hold and no modifications.
func (t Templates) Create(name string, typ Type, src entropy.Source) (Ship, error) {
	tpl, ok := t[typ]
	if !ok {
		return Ship{}, fmt.Errorf("%w %q%s", ErrUnknownType, typ, lookup.Hint(string(typ), t.Types()))
	}

	stats := tpl.Stats
	if stats.MaxHullPoints < 1 {
		stats.MaxHullPoints = 1
	}
	stats.HullPoints = stats.MaxHullPoints

	var weapons []Weapon
	for _, id := range tpl.Weapons {
		if w, ok := DefaultWeapons[id]; ok {
			weapons = append(weapons, w)
		}
	}

	if name == "" {
		name = tpl.Name
	}
	return Ship{
		ID:      entropy.NewID(src),
		Name:    name,
		Type:    typ,
		Size:    tpl.Size,
		Stats:   stats,
		Crew:    crew.New(nil),
		Weapons: weapons,
	}, nil
}

// Create builds a ship from DefaultTemplates.
func Create(name string, typ Type, src entropy.Source) (Ship, error) {
	return DefaultTemplates.Create(name, typ, src)
}

// DefaultWeapons by id.
var DefaultWeapons = map[string]Weapon{
	"swivel_gun":   {ID: "swivel_gun", Name: "Swivel Gun", Damage: entropy.D(2, 6), AttackBonus: 4},
	"ballista":     {ID: "ballista", Name: "Ballista", Damage: entropy.D(3, 10), AttackBonus: 6},
	"light_cannon": {ID: "light_cannon", Name: "Light Cannon", Damage: entropy.D(3, 8), AttackBonus: 5},
	"heavy_cannon": {ID: "heavy_cannon", Name: "Heavy Cannon", Damage: entropy.D(4, 10), AttackBonus: 6},
	"mangonel":     {ID: "mangonel", Name: "Mangonel", Damage: entropy.D(4, 8), AttackBonus: 5},
}

// DefaultTemplates is the built-in ship catalog.
var DefaultTemplates = Templates{
	"rowboat": {
		Type: "rowboat", Name: "Rowboat", Size: SizeSmall,
		Description: "A small open boat pulled by oars; a tender, not a voyager.",
		Stats: Stats{Speed: 15, Maneuverability: 3, MaxHullPoints: 50, ArmorClass: 11,
			CargoCapacity: 0.5, CrewMin: 1, CrewMax: 4},
	},
	"keelboat": {
		Type: "keelboat", Name: "Keelboat", Size: SizeLarge,
		Description: "A flat river and coastal hauler with a single mast.",
		Stats: Stats{Speed: 30, Maneuverability: 1, MaxHullPoints: 100, ArmorClass: 15,
			CargoCapacity: 8, CrewMin: 3, CrewMax: 6},
	},
	"sloop": {
		Type: "sloop", Name: "Sloop", Size: SizeLarge,
		Description: "A quick single-masted cutter favored by smugglers and scouts.",
		Stats: Stats{Speed: 60, Maneuverability: 2, MaxHullPoints: 150, ArmorClass: 14,
			CargoCapacity: 20, CrewMin: 4, CrewMax: 12},
		Weapons: []string{"swivel_gun", "swivel_gun"},
	},
	"brigantine": {
		Type: "brigantine", Name: "Brigantine", Size: SizeHuge,
		Description: "Two masts, square-rigged fore; the workhorse of privateers.",
		Stats: Stats{Speed: 50, Maneuverability: 1, MaxHullPoints: 250, ArmorClass: 15,
			CargoCapacity: 60, CrewMin: 10, CrewMax: 40},
		Weapons: []string{"light_cannon", "light_cannon", "ballista"},
	},
	"galleon": {
		Type: "galleon", Name: "Galleon", Size: SizeGargantuan,
		Description: "A towering treasure ship, slow to turn and hard to sink.",
		Stats: Stats{Speed: 45, Maneuverability: -1, MaxHullPoints: 400, ArmorClass: 16,
			CargoCapacity: 200, CrewMin: 20, CrewMax: 80},
		Weapons: []string{"light_cannon", "light_cannon", "light_cannon", "heavy_cannon"},
	},
	"frigate": {
		Type: "frigate", Name: "Frigate", Size: SizeGargantuan,
		Description: "A purpose-built warship with a full gun deck.",
		Stats: Stats{Speed: 55, Maneuverability: 0, MaxHullPoints: 350, ArmorClass: 17,
			CargoCapacity: 50, CrewMin: 25, CrewMax: 60},
		Weapons: []string{"heavy_cannon", "heavy_cannon", "heavy_cannon", "heavy_cannon"},
	},
	"galley": {
		Type: "galley", Name: "Galley", Size: SizeGargantuan,
		Description: "Oar-driven and ram-prowed; indifferent to the wind.",
		Stats: Stats{Speed: 40, Maneuverability: 0, MaxHullPoints: 500, ArmorClass: 15,
			CargoCapacity: 150, CrewMin: 40, CrewMax: 80},
		Weapons: []string{"mangonel", "ballista"},
	},
}
