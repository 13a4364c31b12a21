package voyage

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/weather"
)

// EventKind selects how resolveEvent applies an event.
type EventKind string

const (
	KindSpeed      EventKind = "speed"       // multiply the day's distance by 1+Magnitude
	KindCourseLoss EventKind = "course_loss" // push the destination back by Dice miles
	KindHullDamage EventKind = "hull_damage" // Dice hull damage
	KindSpoilage   EventKind = "spoilage"    // lose Magnitude fraction of food
	KindProvisions EventKind = "provisions"  // gain Dice food and Dice/2 water
	KindMorale     EventKind = "morale"      // Magnitude morale to every hand
	KindStatus     EventKind = "status"      // set the day's status
	KindFlavor     EventKind = "flavor"      // log line only
)

// Category groups events for display.
type Category string

const (
	CategoryNavigation Category = "navigation"
	CategoryHazard     Category = "hazard"
	CategoryCrew       Category = "crew"
	CategoryDiscovery  Category = "discovery"
	CategoryEncounter  Category = "encounter"
	CategoryFluff      Category = "fluff"
)

// Precondition limits when an event may fire. Zero fields do not constrain.
type Precondition struct {
	MinDaysAtSea  int                     `json:"min_days_at_sea,omitempty" yaml:"min_days_at_sea,omitempty"`
	MinCrew       int                     `json:"min_crew,omitempty" yaml:"min_crew,omitempty"`
	MinHull       int                     `json:"min_hull,omitempty" yaml:"min_hull,omitempty"`
	Wind          []weather.Wind          `json:"wind,omitempty" yaml:"wind,omitempty"`
	Precipitation []weather.Precipitation `json:"precipitation,omitempty" yaml:"precipitation,omitempty"`
}

// Allows reports whether the event may fire today.
func (p Precondition) Allows(st State, sh ship.Ship, w weather.Conditions) bool {
	if st.DaysAtSea < p.MinDaysAtSea {
		return false
	}
	if sh.Crew.Count() < p.MinCrew {
		return false
	}
	if sh.Stats.HullPoints < p.MinHull {
		return false
	}
	if len(p.Wind) > 0 && !slices.Contains(p.Wind, w.Wind) {
		return false
	}
	if len(p.Precipitation) > 0 && !slices.Contains(p.Precipitation, w.Precipitation) {
		return false
	}
	return true
}

// Event is one record of the voyage event table. Message may contain {n},
// replaced by the rolled or computed amount.
type Event struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Kind         EventKind    `json:"kind" yaml:"kind"`
	Category     Category     `json:"category" yaml:"category"`
	Probability  float64      `json:"probability" yaml:"probability"`
	Precondition Precondition `json:"precondition" yaml:"precondition"`
	Dice         entropy.Dice `json:"dice,omitempty" yaml:"dice,omitempty"`
	Magnitude    float64      `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`
	Morale       float64      `json:"morale,omitempty" yaml:"morale,omitempty"`
	Status       Status       `json:"status,omitempty" yaml:"status,omitempty"`
	Type         logbook.Type `json:"type" yaml:"type"`
	Message      string       `json:"message" yaml:"message"`
}

// Events is an event table.
type Events []Event

// Get finds an event by id.
func (e Events) Get(id string) (Event, bool) {
	for _, ev := range e {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// DefaultEvents is the canonical voyage event table.
var DefaultEvents = Events{
	{
		ID: "fair_winds", Name: "Fair Winds", Kind: KindSpeed, Category: CategoryNavigation,
		Probability: 0.15, Magnitude: 0.25, Type: logbook.Info,
		Message: "Fair winds fill the sails; the ship makes {n} extra miles",
	},
	{
		ID: "doldrums", Name: "Doldrums", Kind: KindSpeed, Category: CategoryNavigation,
		Probability: 0.12, Magnitude: -0.5, Morale: -2, Type: logbook.Warning,
		Precondition: Precondition{Wind: []weather.Wind{weather.WindCalm, weather.WindLight}},
		Message:      "The sea falls glassy and still; {n} miles lost to the doldrums",
	},
	{
		ID: "blown_off_course", Name: "Blown Off Course", Kind: KindCourseLoss, Category: CategoryNavigation,
		Probability: 0.1, Dice: entropy.D(3, 10).Plus(10), Type: logbook.Warning,
		Precondition: Precondition{Wind: []weather.Wind{weather.WindStrong, weather.WindGale}},
		Message:      "Heavy winds drive the ship off course, adding {n} miles to the journey",
	},
	{
		ID: "squall", Name: "Squall", Kind: KindHullDamage, Category: CategoryHazard,
		Probability: 0.1, Dice: entropy.D(2, 6), Morale: -3, Type: logbook.Warning,
		Precondition: Precondition{Precipitation: []weather.Precipitation{weather.PrecipRain, weather.PrecipHeavy, weather.PrecipSnow}},
		Message:      "A sudden squall batters the rigging for {n} hull damage",
	},
	{
		ID: "leak", Name: "Sprung Leak", Kind: KindHullDamage, Category: CategoryHazard,
		Probability: 0.08, Dice: entropy.D(1, 10), Type: logbook.Warning,
		Precondition: Precondition{MinDaysAtSea: 4, MinHull: 1},
		Message:      "A seam opens below the waterline; the pumps work all night ({n} hull damage)",
	},
	{
		ID: "storm_surge", Name: "Storm Surge", Kind: KindHullDamage, Category: CategoryHazard,
		Probability: 0.3, Dice: entropy.D(3, 8), Morale: -5, Status: StatusStorm, Type: logbook.Warning,
		Precondition: Precondition{Precipitation: []weather.Precipitation{weather.PrecipStorm, weather.PrecipBlizzard}},
		Message:      "Green water breaks over the bow as the storm surges ({n} hull damage)",
	},
	{
		ID: "spoiled_stores", Name: "Spoiled Stores", Kind: KindSpoilage, Category: CategoryHazard,
		Probability: 0.08, Magnitude: 0.1, Type: logbook.Warning,
		Precondition: Precondition{MinDaysAtSea: 3},
		Message:      "Rats and damp have spoiled {n} rations of food",
	},
	{
		ID: "fishing_haul", Name: "Fishing Haul", Kind: KindProvisions, Category: CategoryDiscovery,
		Probability: 0.1, Dice: entropy.D(2, 6).Plus(2), Morale: 2, Type: logbook.Discovery,
		Precondition: Precondition{MinCrew: 1},
		Message:      "The lines come up heavy; {n} rations of fresh fish",
	},
	{
		ID: "flotsam", Name: "Flotsam", Kind: KindProvisions, Category: CategoryDiscovery,
		Probability: 0.06, Dice: entropy.D(1, 8), Type: logbook.Discovery,
		Message: "Lookouts spot floating casks; {n} rations hauled aboard",
	},
	{
		ID: "sea_fever", Name: "Sea Fever", Kind: KindMorale, Category: CategoryCrew,
		Probability: 0.06, Magnitude: -8, Type: logbook.Warning,
		Precondition: Precondition{MinDaysAtSea: 5, MinCrew: 1},
		Message:      "Fever spreads through the forecastle; spirits sink",
	},
	{
		ID: "whale_sighting", Name: "Whale Sighting", Kind: KindMorale, Category: CategoryFluff,
		Probability: 0.1, Magnitude: 3, Type: logbook.Fluff,
		Message: "A pod of whales breaches off the starboard bow",
	},
	{
		ID: "sea_shanty", Name: "Sea Shanty", Kind: KindFlavor, Category: CategoryFluff,
		Probability: 0.12, Type: logbook.Fluff,
		Precondition: Precondition{MinCrew: 2},
		Message:      "The watch sings shanties through the dog watch",
	},
	{
		ID: "sail_on_horizon", Name: "Sail on the Horizon", Kind: KindStatus, Category: CategoryEncounter,
		Probability: 0.05, Status: StatusCombat, Type: logbook.Warning,
		Precondition: Precondition{MinDaysAtSea: 2},
		Message:      "Sail ho! An unknown vessel closes from windward",
	},
}

// outcome is what an event does to the day.
type outcome struct {
	speedFactor float64 // multiplies the day's miles
	courseLoss  float64
	hullDamage  int
	morale      float64
	moraleCause crew.Cause
	food        float64
	water       float64
	status      Status
	entry       logbook.Entry
}

// resolveEvent applies one event record. miles is the distance the ship
// would make today before the event.
func resolveEvent(ev Event, day int, miles float64, sh ship.Ship, src entropy.Source) outcome {
	out := outcome{speedFactor: 1, morale: ev.Morale, status: ev.Status}
	var amount float64

	switch ev.Kind {
	case KindSpeed:
		out.speedFactor = math.Max(0, 1+ev.Magnitude)
		amount = math.Abs(miles * ev.Magnitude)
	case KindCourseLoss:
		out.courseLoss = float64(ev.Dice.Roll(src))
		amount = out.courseLoss
	case KindHullDamage:
		out.hullDamage = ev.Dice.Roll(src)
		amount = float64(out.hullDamage)
	case KindSpoilage:
		out.food = -math.Floor(sh.Cargo.Supplies.Food * ev.Magnitude)
		amount = -out.food
	case KindProvisions:
		n := float64(ev.Dice.Roll(src))
		out.food = n
		out.water = math.Floor(n / 2)
		amount = n
	case KindMorale:
		out.morale += ev.Magnitude
	case KindStatus, KindFlavor:
	}

	if out.morale < 0 && ev.Category == CategoryHazard {
		out.moraleCause = crew.CauseWeather
	}

	msg := strings.ReplaceAll(ev.Message, "{n}", fmt.Sprintf("%.0f", amount))
	out.entry = logbook.Entry{Day: day, Type: ev.Type, Message: msg}
	return out
}

// pickEvent filters by precondition, shuffles, and returns the first event
// whose own chance (probability ×3) succeeds.
func pickEvent(events Events, st State, sh ship.Ship, w weather.Conditions, src entropy.Source) (Event, bool) {
	var eligible []Event
	for _, ev := range events {
		if ev.Precondition.Allows(st, sh, w) {
			eligible = append(eligible, ev)
		}
	}
	entropy.Shuffle(src, len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	for _, ev := range eligible {
		if entropy.Chance(src, ev.Probability*3) {
			return ev, true
		}
	}
	return Event{}, false
}
