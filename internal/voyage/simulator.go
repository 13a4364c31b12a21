package voyage

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/weather"
)

const (
	// EventChance is the daily chance that anything happens at all.
	EventChance = 0.4

	shortagePenalty = -10.0
)

// DayResult is the outcome of one day at sea. Funds is what the caller's
// treasury holds after wages; the caller applies it.
type DayResult struct {
	State State
	Ship  ship.Ship
	Funds float64
}

// Simulator advances voyages against an event table.
type Simulator struct {
	Events Events
}

// NewSimulator returns a simulator using the given events, or DefaultEvents
// when none are supplied.
func NewSimulator(events Events) *Simulator {
	if len(events) == 0 {
		events = DefaultEvents
	}
	return &Simulator{Events: events}
}

// AdvanceDay advances with DefaultEvents.
func AdvanceDay(st State, sh ship.Ship, w weather.Conditions, funds float64, src entropy.Source) DayResult {
	return NewSimulator(nil).AdvanceDay(st, sh, w, funds, src)
}

// AdvanceDay sails one day. Arrived voyages and sunk ships are returned
// unchanged. Neither st nor sh is modified.
func (sim *Simulator) AdvanceDay(st State, sh ship.Ship, w weather.Conditions, funds float64, src entropy.Source) DayResult {
	if st.Arrived() || sh.Sunk() {
		return DayResult{State: st.Clone(), Ship: sh.Clone(), Funds: funds}
	}

	next := st.Clone()
	boat := sh.Clone()
	next.DaysAtSea++
	day := next.DaysAtSea
	next.CurrentWeather = w
	next.Status = StatusSailing

	eff := weather.MapToSim(w)
	if eff.Severe {
		next.Status = StatusStorm
	}
	miles := ship.MilesPerDay(ship.CalculateStats(boat).Speed) * eff.SpeedMultiplier

	var events []logbook.Entry
	if entropy.Chance(src, EventChance) {
		if ev, ok := pickEvent(sim.Events, next, boat, w, src); ok {
			out := resolveEvent(ev, day, miles, boat, src)
			miles *= out.speedFactor
			if out.courseLoss > 0 {
				next.DistanceToDestination += out.courseLoss
			}
			if out.hullDamage > 0 {
				boat = ship.ApplyDamage(boat, out.hullDamage)
			}
			if out.morale != 0 {
				boat.Crew = crew.ModifyMorale(boat.Crew, out.morale, out.moraleCause)
			}
			boat.Cargo.Supplies.Food = math.Max(0, boat.Cargo.Supplies.Food+out.food)
			boat.Cargo.Supplies.Water = math.Max(0, boat.Cargo.Supplies.Water+out.water)
			if out.status != "" {
				next.Status = out.status
			}
			events = append(events, out.entry)
		}
	}

	miles = math.Max(0, miles)
	sailed := math.Min(miles, next.DistanceToDestination)
	next.DistanceTraveled += sailed
	next.DistanceToDestination = math.Max(0, next.DistanceToDestination-miles)

	daily := crew.ProcessDaily(boat.Crew, funds, src)
	boat.Crew = daily.Crew
	funds = daily.Funds
	for _, e := range daily.Log {
		e.Day = day
		events = append(events, e)
	}
	if daily.Mutiny {
		boat = boat.WithFlag(ship.FlagMutinous, true)
	}

	need := DailyNeed(boat.Crew.Count(), next.Rationing)
	supplies, taken, starving, thirsty := consume(boat.Cargo.Supplies, need)
	boat.Cargo.Supplies = supplies
	next.SuppliesConsumed.Food += taken.Food
	next.SuppliesConsumed.Water += taken.Water

	if p := policyFor(next.Rationing); p.Morale != 0 {
		boat.Crew = crew.ModifyMorale(boat.Crew, p.Morale, crew.CauseRationing)
	}
	if starving || thirsty {
		boat.Crew = crew.ModifyMorale(boat.Crew, shortagePenalty, crew.CauseStarvation)
	}
	boat = boat.WithFlag(ship.FlagStarving, starving).WithFlag(ship.FlagThirsty, thirsty)
	if starving {
		events = append(events, logbook.Dayf(day, logbook.Warning, "The food is gone; the crew goes hungry"))
	}
	if thirsty {
		events = append(events, logbook.Dayf(day, logbook.Warning, "The water casks are dry"))
	}
	if boat.Sunk() {
		events = append(events, logbook.Dayf(day, logbook.Warning, "The %s founders and goes down", boat.Name))
	}

	next.Log = append(next.Log, logbook.Dayf(day, logbook.Info, "Day %d: sailed %s miles, %s remaining. %s.",
		day, humanize.Comma(int64(math.Round(sailed))), humanize.Comma(int64(math.Ceil(next.DistanceToDestination))),
		w.Description))
	next.Log = append(next.Log, events...)

	if next.DistanceToDestination == 0 {
		next.Status = StatusDocked
		next.Log = append(next.Log, logbook.Dayf(day, logbook.Info, "Land ho! The %s makes port after %d days and %s miles",
			boat.Name, day, humanize.Comma(int64(math.Round(next.DistanceTraveled)))))
	}

	return DayResult{State: next, Ship: boat, Funds: funds}
}
