package ship

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/seaworthy/internal/lookup"
)

var (
	// ErrAlreadyInstalled is returned when a modification id is already fitted.
	ErrAlreadyInstalled = errors.New("modification already installed")
	// ErrUnsupportedSize is returned when a modification excludes the hull size.
	ErrUnsupportedSize = errors.New("modification does not support ship size")
	// ErrUnknownModification is returned for catalog misses.
	ErrUnknownModification = errors.New("unknown modification")
)

// Supports reports whether the modification can be fitted to a hull of size.
func (m Modification) Supports(size Size) bool {
	if len(m.Sizes) == 0 {
		return true
	}
	for _, s := range m.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// InstallModification returns a copy of s with mod fitted. s is never changed.
func InstallModification(s Ship, mod Modification) (Ship, error) {
	if s.HasModification(mod.ID) {
		return s, fmt.Errorf("%w: %s on %s", ErrAlreadyInstalled, mod.ID, s.Name)
	}
	if !mod.Supports(s.Size) {
		return s, fmt.Errorf("%w: %s requires %v, %s is %s", ErrUnsupportedSize, mod.ID, mod.Sizes, s.Name, s.Size)
	}

	out := s.Clone()
	fitted := mod
	fitted.Modifiers = append([]Modifier(nil), mod.Modifiers...)
	fitted.Sizes = append([]Size(nil), mod.Sizes...)
	out.Modifications = append(out.Modifications, fitted)
	return out, nil
}

// Modifications is a modification catalog keyed by id.
type Modifications map[string]Modification

// Get looks up a modification, suggesting a near miss on failure.
func (c Modifications) Get(id string) (Modification, error) {
	if m, ok := c[id]; ok {
		return m, nil
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Modification{}, fmt.Errorf("%w %q%s", ErrUnknownModification, id, lookup.Hint(id, keys))
}

// DefaultModifications is the built-in shipwright catalog.
var DefaultModifications = Modifications{
	"reinforced_hull": {
		ID: "reinforced_hull", Name: "Reinforced Hull", Cost: 2500,
		Description: "Oak ribs and doubled planking below the waterline.",
		Modifiers: []Modifier{
			{Stat: StatMaxHullPoints, Op: OpAdd, Value: 50},
			{Stat: StatArmorClass, Op: OpAdd, Value: 1},
			{Stat: StatSpeed, Op: OpAdd, Value: -5},
		},
	},
	"copper_sheathing": {
		ID: "copper_sheathing", Name: "Copper Sheathing", Cost: 3000,
		Description: "Keeps the hull free of weed and shipworm.",
		Modifiers: []Modifier{
			{Stat: StatSpeed, Op: OpMultiply, Value: 1.1},
		},
	},
	"extra_sails": {
		ID: "extra_sails", Name: "Studding Sails", Cost: 1200,
		Description: "Additional canvas rigged outboard of the square sails.",
		Modifiers: []Modifier{
			{Stat: StatSpeed, Op: OpAdd, Value: 10},
			{Stat: StatCrewMin, Op: OpAdd, Value: 2},
		},
		Sizes: []Size{SizeLarge, SizeHuge, SizeGargantuan},
	},
	"improved_rudder": {
		ID: "improved_rudder", Name: "Improved Rudder", Cost: 800,
		Description: "A larger blade and a wheel in place of the tiller.",
		Modifiers: []Modifier{
			{Stat: StatManeuverability, Op: OpAdd, Value: 1},
		},
	},
	"expanded_hold": {
		ID: "expanded_hold", Name: "Expanded Hold", Cost: 2000,
		Description: "Bulkheads moved and the orlop deck cleared for cargo.",
		Modifiers: []Modifier{
			{Stat: StatCargoCapacity, Op: OpMultiply, Value: 1.25},
			{Stat: StatMaxHullPoints, Op: OpMultiply, Value: 0.9},
		},
		Sizes: []Size{SizeHuge, SizeGargantuan},
	},
	"crew_quarters": {
		ID: "crew_quarters", Name: "Expanded Crew Quarters", Cost: 1500,
		Description: "Hammock space for more hands.",
		Modifiers: []Modifier{
			{Stat: StatCrewMax, Op: OpMultiply, Value: 1.5},
			{Stat: StatCargoCapacity, Op: OpAdd, Value: -5},
		},
	},
	"ram": {
		ID: "ram", Name: "Bronze Ram", Cost: 4000,
		Description: "A bronze beak at the waterline for holing enemy hulls.",
		Modifiers: []Modifier{
			{Stat: StatArmorClass, Op: OpAdd, Value: 1},
			{Stat: StatManeuverability, Op: OpAdd, Value: -1},
		},
		Sizes: []Size{SizeHuge, SizeGargantuan},
	},
}
