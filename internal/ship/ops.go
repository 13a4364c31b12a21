package ship

import (
	"errors"
	"fmt"

	"github.com/talgya/seaworthy/internal/crew"
)

var (
	// ErrCrewFull is returned when recruiting past CrewMax.
	ErrCrewFull = errors.New("no berths left")
	// ErrOverCapacity is returned when the hold cannot take more.
	ErrOverCapacity = errors.New("hold over capacity")
)

// Hold weights in tons.
const (
	RationWeight     = 0.002 // one person-day of food or water
	AmmunitionWeight = 0.01  // one shot
	GoodsWeight      = 1.0   // one unit of trade goods
)

// ApplyDamage returns a copy with hull reduced by amount, floored at 0.
// A ship reduced to 0 is flagged sunk.
func ApplyDamage(s Ship, amount int) Ship {
	out := s.Clone()
	if amount <= 0 {
		return out
	}
	out.Stats.HullPoints -= amount
	if out.Stats.HullPoints <= 0 {
		out.Stats.HullPoints = 0
		return out.WithFlag(FlagSunk, true)
	}
	return out
}

// Repair returns a copy with hull restored by amount, capped at the derived
// maximum. Sunk ships cannot be repaired.
func Repair(s Ship, amount int) Ship {
	out := s.Clone()
	if amount <= 0 || s.Sunk() {
		return out
	}
	maxHull := CalculateStats(s).MaxHullPoints
	out.Stats.HullPoints += amount
	if out.Stats.HullPoints > maxHull {
		out.Stats.HullPoints = maxHull
	}
	return out
}

// RecruitCrew returns a copy with the members signed on, bounded by the
// derived crew maximum.
func RecruitCrew(s Ship, members ...crew.Member) (Ship, error) {
	berths := CalculateStats(s).CrewMax - s.Crew.Count()
	if len(members) > berths {
		return s, fmt.Errorf("%w: %s has %d berths, %d recruits", ErrCrewFull, s.Name, berths, len(members))
	}
	out := s.Clone()
	out.Crew = s.Crew.Add(members...)
	return out, nil
}

// CargoLoad is the hold weight in tons.
func CargoLoad(c Cargo) float64 {
	load := (c.Supplies.Food + c.Supplies.Water) * RationWeight
	load += float64(c.Ammunition) * AmmunitionWeight
	for _, qty := range c.Goods {
		load += float64(qty) * GoodsWeight
	}
	return load
}

// LoadSupplies returns a copy with food, water and shot added to the hold.
func LoadSupplies(s Ship, food, water float64, ammunition int) (Ship, error) {
	next := s.Cargo
	next.Supplies.Food += food
	next.Supplies.Water += water
	next.Ammunition += ammunition

	capacity := CalculateStats(s).CargoCapacity
	if load := CargoLoad(next); load > capacity {
		return s, fmt.Errorf("%w: %.2f of %.2f tons", ErrOverCapacity, load, capacity)
	}

	out := s.Clone()
	out.Cargo.Supplies = next.Supplies
	out.Cargo.Ammunition = next.Ammunition
	return out, nil
}
