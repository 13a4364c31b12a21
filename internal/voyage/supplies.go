package voyage

import (
	"math"

	"github.com/talgya/seaworthy/internal/ship"
)

// Daily ration per hand, in person-day units.
const (
	FoodPerHand  = 1.0
	WaterPerHand = 1.0
)

// rationPolicy scales consumption and costs morale.
type rationPolicy struct {
	Food   float64
	Water  float64
	Morale float64
}

var rations = map[Rationing]rationPolicy{
	RationNormal:     {Food: 1.0, Water: 1.0},
	RationHalf:       {Food: 0.5, Water: 1.0, Morale: -5},
	RationStarvation: {Food: 0, Water: 0.5, Morale: -15},
}

func policyFor(r Rationing) rationPolicy {
	if p, ok := rations[r]; ok {
		return p
	}
	return rations[RationNormal]
}

// DailyNeed is what the crew consumes in a day under the policy.
func DailyNeed(hands int, r Rationing) Consumption {
	p := policyFor(r)
	return Consumption{
		Food:  float64(hands) * FoodPerHand * p.Food,
		Water: float64(hands) * WaterPerHand * p.Water,
	}
}

// DaysOfSupplies is how many days the hold lasts at the given rationing.
// Returns +Inf when nothing is being consumed.
func DaysOfSupplies(sh ship.Ship, r Rationing) float64 {
	need := DailyNeed(sh.Crew.Count(), r)
	days := math.Inf(1)
	if need.Food > 0 {
		days = math.Min(days, sh.Cargo.Supplies.Food/need.Food)
	}
	if need.Water > 0 {
		days = math.Min(days, sh.Cargo.Supplies.Water/need.Water)
	}
	return days
}

// consume deducts one day's need from the hold, flooring at zero.
// Returns what was actually taken and whether the hold ran short.
func consume(supplies ship.Supplies, need Consumption) (ship.Supplies, Consumption, bool, bool) {
	starving := supplies.Food < need.Food
	thirsty := supplies.Water < need.Water

	taken := Consumption{
		Food:  math.Min(supplies.Food, need.Food),
		Water: math.Min(supplies.Water, need.Water),
	}
	supplies.Food = math.Max(0, supplies.Food-need.Food)
	supplies.Water = math.Max(0, supplies.Water-need.Water)
	return supplies, taken, starving, thirsty
}
