// Package catalog loads the static game tables: ship templates,
// modifications, combat maneuvers and voyage events. Built-in defaults are
// overridden entry by entry from a YAML file.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/voyage"
)

// ErrInvalid is returned for catalog entries the engines cannot use.
var ErrInvalid = errors.New("invalid catalog entry")

// File is the on-disk layout.
type File struct {
	Ships         []ship.Template     `yaml:"ships"`
	Modifications []ship.Modification `yaml:"modifications"`
	Maneuvers     []naval.Maneuver    `yaml:"maneuvers"`
	Events        []voyage.Event      `yaml:"events"`
}

// Catalog is the merged set of tables the engines run against.
type Catalog struct {
	Templates     ship.Templates
	Modifications ship.Modifications
	Maneuvers     naval.Maneuvers
	Events        voyage.Events
}

// Default returns copies of the built-in tables.
func Default() Catalog {
	return Catalog{
		Templates:     maps.Clone(ship.DefaultTemplates),
		Modifications: maps.Clone(ship.DefaultModifications),
		Maneuvers:     maps.Clone(naval.DefaultManeuvers),
		Events:        slices.Clone(voyage.DefaultEvents),
	}
}

// Load reads path and merges it over the defaults. An empty path returns
// the defaults.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse merges a YAML document over the defaults. Entries replace defaults
// with the same key; new keys are added.
func Parse(data []byte) (Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	c := Default()
	for _, t := range f.Ships {
		if err := validateTemplate(t); err != nil {
			return Catalog{}, err
		}
		c.Templates[t.Type] = t
	}
	for _, m := range f.Modifications {
		if m.ID == "" {
			return Catalog{}, fmt.Errorf("%w: modification without id", ErrInvalid)
		}
		c.Modifications[m.ID] = m
	}
	for _, m := range f.Maneuvers {
		if err := validateManeuver(m); err != nil {
			return Catalog{}, err
		}
		c.Maneuvers[m.ID] = m
	}
	for _, ev := range f.Events {
		if err := validateEvent(ev); err != nil {
			return Catalog{}, err
		}
		if i := slices.IndexFunc(c.Events, func(e voyage.Event) bool { return e.ID == ev.ID }); i >= 0 {
			c.Events[i] = ev
		} else {
			c.Events = append(c.Events, ev)
		}
	}
	return c, nil
}

func validateTemplate(t ship.Template) error {
	switch {
	case t.Type == "":
		return fmt.Errorf("%w: ship template without type", ErrInvalid)
	case t.Stats.MaxHullPoints < 1:
		return fmt.Errorf("%w: ship %s needs max_hull_points >= 1", ErrInvalid, t.Type)
	case t.Stats.Speed < 0:
		return fmt.Errorf("%w: ship %s has negative speed", ErrInvalid, t.Type)
	case t.Stats.CrewMax < t.Stats.CrewMin:
		return fmt.Errorf("%w: ship %s crew_max below crew_min", ErrInvalid, t.Type)
	}
	for _, w := range t.Weapons {
		if _, ok := ship.DefaultWeapons[w]; !ok {
			return fmt.Errorf("%w: ship %s mounts unknown weapon %q", ErrInvalid, t.Type, w)
		}
	}
	return nil
}

var maneuverKinds = []naval.Kind{
	naval.KindBuff, naval.KindMove, naval.KindAttack, naval.KindRam, naval.KindGrapple, naval.KindRepair,
}

func validateManeuver(m naval.Maneuver) error {
	if m.ID == "" {
		return fmt.Errorf("%w: maneuver without id", ErrInvalid)
	}
	if !slices.Contains(maneuverKinds, m.Kind) {
		return fmt.Errorf("%w: maneuver %s has unknown kind %q", ErrInvalid, m.ID, m.Kind)
	}
	if m.Cooldown < 0 {
		return fmt.Errorf("%w: maneuver %s has negative cooldown", ErrInvalid, m.ID)
	}
	return nil
}

var eventKinds = []voyage.EventKind{
	voyage.KindSpeed, voyage.KindCourseLoss, voyage.KindHullDamage, voyage.KindSpoilage,
	voyage.KindProvisions, voyage.KindMorale, voyage.KindStatus, voyage.KindFlavor,
}

func validateEvent(ev voyage.Event) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: event without id", ErrInvalid)
	}
	if !slices.Contains(eventKinds, ev.Kind) {
		return fmt.Errorf("%w: event %s has unknown kind %q", ErrInvalid, ev.ID, ev.Kind)
	}
	if ev.Probability < 0 || ev.Probability > 1 {
		return fmt.Errorf("%w: event %s probability %.2f outside [0,1]", ErrInvalid, ev.ID, ev.Probability)
	}
	return nil
}
