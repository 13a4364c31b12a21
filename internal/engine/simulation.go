package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/talgya/seaworthy/internal/catalog"
	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/voyage"
	"github.com/talgya/seaworthy/internal/weather"
)

// Setup is everything needed to fit out and sail a voyage.
type Setup struct {
	Seed       int64
	Climate    weather.Climate
	Catalog    catalog.Catalog
	ShipType   ship.Type
	ShipName   string
	CrewLevel  int
	Distance   float64
	Funds      float64
	Food       float64
	Water      float64
	Ammunition int

	// Encounters: the ship met when an event puts the voyage into combat.
	EnemyType ship.Type
	EnemyName string
	MaxRounds int
}

// victoryMorale is the crew's lift after driving off an attacker.
const victoryMorale = 10

// FitOut builds the starting ship: hull from the catalog, a standard
// complement halfway between minimum and maximum crew, and a stocked hold.
func FitOut(s Setup) (ship.Ship, error) {
	src := entropy.Derive(s.Seed, "fitout")
	sh, err := s.Catalog.Templates.Create(s.ShipName, s.ShipType, src)
	if err != nil {
		return ship.Ship{}, fmt.Errorf("fit out: %w", err)
	}
	hands := sh.Stats.CrewMin + (sh.Stats.CrewMax-sh.Stats.CrewMin)/2
	level := max(s.CrewLevel, 1)
	sh, err = ship.RecruitCrew(sh, crew.GenerateCrew(crew.StandardComplement(hands), level, src).Members...)
	if err != nil {
		return ship.Ship{}, fmt.Errorf("fit out: %w", err)
	}
	sh, err = ship.LoadSupplies(sh, s.Food, s.Water, s.Ammunition)
	if err != nil {
		return ship.Ship{}, fmt.Errorf("fit out: %w", err)
	}
	return sh, nil
}

// Simulation owns one voyage. The tick loop writes it and the API reads
// it, so every method takes the lock.
type Simulation struct {
	mu sync.RWMutex

	setup   Setup
	weather *weather.Generator
	voyages *voyage.Simulator
	combat  *naval.Engine

	ship     ship.Ship
	voyage   voyage.State
	funds    float64
	lastTick uint64

	pending []logbook.Entry // voyage log not yet persisted
	battles []naval.State   // engagements not yet persisted
	stats   Stats
}

// Stats tracks running totals for reports.
type Stats struct {
	Engagements int                  `json:"engagements"`
	Victories   int                  `json:"victories"`
	Entries     map[logbook.Type]int `json:"entries"`
}

// NewSimulation resumes (or begins) a voyage.
func NewSimulation(s Setup, sh ship.Ship, st voyage.State, funds float64) *Simulation {
	if s.MaxRounds <= 0 {
		s.MaxRounds = naval.DefaultRoundLimit
	}
	sim := &Simulation{
		setup:   s,
		weather: weather.NewGenerator(s.Seed, s.Climate),
		voyages: voyage.NewSimulator(s.Catalog.Events),
		combat:  naval.NewEngine(s.Catalog.Maneuvers),
		ship:    sh.Clone(),
		voyage:  st.Clone(),
		funds:   funds,
		stats:   Stats{Entries: make(map[logbook.Type]int)},
	}
	for _, e := range st.Log {
		sim.stats.Entries[e.Type]++
	}
	return sim
}

// CurrentTick returns the most recently processed tick.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}

// Done reports whether the voyage has ended, in port or on the bottom.
func (s *Simulation) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done()
}

func (s *Simulation) done() bool {
	return s.voyage.Arrived() || s.ship.Sunk()
}

// TickDay sails one day. Each day draws from its own derived stream so a
// resumed voyage replays the same seas.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTick = tick
	if s.done() {
		return
	}

	day := s.voyage.DaysAtSea + 1
	src := entropy.Derive(s.setup.Seed, fmt.Sprintf("day:%d", day))
	before := len(s.voyage.Log)

	res := s.voyages.AdvanceDay(s.voyage, s.ship, s.weather.ForDay(day), s.funds, src)
	s.voyage, s.ship, s.funds = res.State, res.Ship, res.Funds

	if s.voyage.Status == voyage.StatusCombat {
		s.engage(day, src)
	}

	fresh := s.voyage.Log[before:]
	s.pending = append(s.pending, fresh...)
	for _, e := range fresh {
		s.stats.Entries[e.Type]++
	}

	slog.Info("daily report",
		"tick", tick,
		"time", SeaTime(uint64(day)),
		"status", s.voyage.Status,
		"miles_to_go", fmt.Sprintf("%.0f", s.voyage.DistanceToDestination),
		"hull", s.ship.Stats.HullPoints,
		"crew", s.ship.Crew.Count(),
		"morale", fmt.Sprintf("%.1f", s.ship.Crew.AverageMorale),
		"unrest", fmt.Sprintf("%.1f", s.ship.Crew.Unrest),
		"food", fmt.Sprintf("%.1f", s.ship.Cargo.Supplies.Food),
		"water", fmt.Sprintf("%.1f", s.ship.Cargo.Supplies.Water),
		"funds", fmt.Sprintf("%.2f", s.funds),
		"new_entries", len(fresh),
	)
	for _, e := range fresh {
		if e.Type == logbook.Warning || e.Type == logbook.Attack {
			slog.Info("event", "type", e.Type, "message", e.Message)
		}
	}
}

// engage fights the configured enemy to a finish and writes the result
// back into the ship and the voyage log.
func (s *Simulation) engage(day int, src entropy.Source) {
	enemy, err := s.setup.Catalog.Templates.Create(s.setup.EnemyName, s.setup.EnemyType, src)
	if err != nil {
		slog.Warn("encounter skipped", "error", err)
		return
	}
	enemy, err = ship.RecruitCrew(enemy, crew.GenerateCrew(crew.StandardComplement(enemy.Stats.CrewMin), 1, src).Members...)
	if err != nil {
		slog.Warn("encounter skipped", "error", err)
		return
	}
	if armed, err := ship.LoadSupplies(enemy, 0, 0, s.ship.Cargo.Ammunition); err == nil {
		enemy = armed
	}

	fight := s.combat.Duel(s.ship, enemy, s.setup.MaxRounds, src)
	s.battles = append(s.battles, fight)
	s.stats.Engagements++

	if after, ok := fight.Ship(s.ship.ID); ok {
		s.ship = after
	}
	winner, decided := fight.Winner()
	switch {
	case s.ship.Sunk():
		s.voyage.Log = append(s.voyage.Log, logbook.Dayf(day, logbook.Warning,
			"The %s goes down under the guns of the %s", s.ship.Name, enemy.Name))
	case decided && winner == s.ship.ID:
		s.stats.Victories++
		s.ship.Crew = crew.ModifyMorale(s.ship.Crew, victoryMorale, crew.CauseCombat)
		s.voyage.Log = append(s.voyage.Log, logbook.Dayf(day, logbook.Attack,
			"The %s sends the %s to the bottom after %d rounds", s.ship.Name, enemy.Name, fight.Round))
	default:
		s.voyage.Log = append(s.voyage.Log, logbook.Dayf(day, logbook.Info,
			"The %s and the %s part company, hull at %d of %d", s.ship.Name, enemy.Name,
			s.ship.Stats.HullPoints, s.ship.Stats.MaxHullPoints))
	}
	if !s.ship.Sunk() {
		s.voyage.Status = voyage.StatusSailing
	}
}

// SetRationing changes the ration level for the days ahead.
func (s *Simulation) SetRationing(level voyage.Rationing) voyage.Rationing {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.voyage.Log)
	s.voyage = voyage.SetRationing(s.voyage, level)
	s.pending = append(s.pending, s.voyage.Log[before:]...)
	return s.voyage.Rationing
}

// Ship returns a copy of the ship.
func (s *Simulation) Ship() ship.Ship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ship.Clone()
}

// Voyage returns a copy of the voyage state.
func (s *Simulation) Voyage() voyage.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voyage.Clone()
}

// Funds returns the treasury.
func (s *Simulation) Funds() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.funds
}

// Recent returns up to limit of the latest log entries, oldest first.
func (s *Simulation) Recent(limit int) []logbook.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.voyage.Log
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	return append([]logbook.Entry(nil), log...)
}

// DrainLog hands over the entries written since the last drain.
func (s *Simulation) DrainLog() []logbook.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// DrainBattles hands over the engagements fought since the last drain.
func (s *Simulation) DrainBattles() []naval.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.battles
	s.battles = nil
	return out
}

// Report is a point-in-time summary for the status endpoint.
type Report struct {
	Ship                  string   `json:"ship"`
	Type                  string   `json:"type"`
	Day                   int      `json:"day"`
	SeaTime               string   `json:"sea_time"`
	Status                string   `json:"status"`
	Rationing             string   `json:"rationing"`
	DistanceTraveled      float64  `json:"distance_traveled"`
	DistanceToDestination float64  `json:"distance_to_destination"`
	Hull                  int      `json:"hull"`
	MaxHull               int      `json:"max_hull"`
	Crew                  int      `json:"crew"`
	Morale                float64  `json:"morale"`
	Unrest                float64  `json:"unrest"`
	Food                  float64  `json:"food"`
	Water                 float64  `json:"water"`
	DaysOfSupplies        *float64 `json:"days_of_supplies,omitempty"` // omitted when nothing is eaten
	Funds                 float64  `json:"funds"`
	Weather               string   `json:"weather"`
	Stats                 Stats    `json:"stats"`
	Done                  bool     `json:"done"`
}

// Report summarizes the voyage.
func (s *Simulation) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := Report{
		Ship:                  s.ship.Name,
		Type:                  string(s.ship.Type),
		Day:                   s.voyage.DaysAtSea,
		SeaTime:               SeaTime(uint64(s.voyage.DaysAtSea)),
		Status:                s.voyage.Status.String(),
		Rationing:             s.voyage.Rationing.String(),
		DistanceTraveled:      s.voyage.DistanceTraveled,
		DistanceToDestination: s.voyage.DistanceToDestination,
		Hull:                  s.ship.Stats.HullPoints,
		MaxHull:               s.ship.Stats.MaxHullPoints,
		Crew:                  s.ship.Crew.Count(),
		Morale:                s.ship.Crew.AverageMorale,
		Unrest:                s.ship.Crew.Unrest,
		Food:                  s.ship.Cargo.Supplies.Food,
		Water:                 s.ship.Cargo.Supplies.Water,
		Funds:                 s.funds,
		Weather:               s.voyage.CurrentWeather.Description,
		Stats:                 Stats{Engagements: s.stats.Engagements, Victories: s.stats.Victories, Entries: make(map[logbook.Type]int, len(s.stats.Entries))},
		Done:                  s.done(),
	}
	for k, v := range s.stats.Entries {
		r.Stats.Entries[k] = v
	}
	if days := voyage.DaysOfSupplies(s.ship, s.voyage.Rationing); !math.IsInf(days, 1) {
		r.DaysOfSupplies = &days
	}
	return r
}
