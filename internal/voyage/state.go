// Package voyage advances a ship across open water one day at a time:
// movement, weather, random events, wages and supply consumption.
package voyage

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/weather"
)

// Status is the voyage's condition on the current day.
type Status string

const (
	StatusSailing Status = "sailing"
	StatusDocked  Status = "docked"
	StatusStorm   Status = "storm"
	StatusCombat  Status = "combat"
)

// Rationing is the supply consumption policy.
type Rationing string

const (
	RationNormal     Rationing = "normal"
	RationHalf       Rationing = "half"
	RationStarvation Rationing = "starvation"
)

// Consumption tracks supplies eaten and drunk.
type Consumption struct {
	Food  float64 `json:"food" yaml:"food"`
	Water float64 `json:"water" yaml:"water"`
}

// State is a voyage in progress. DistanceToDestination only grows through a
// blown-off-course event; Status is Docked from the day it reaches 0.
type State struct {
	ShipID                string             `json:"ship_id" yaml:"ship_id"`
	Status                Status             `json:"status" yaml:"status"`
	Rationing             Rationing          `json:"rationing" yaml:"rationing"`
	DaysAtSea             int                `json:"days_at_sea" yaml:"days_at_sea"`
	DistanceTraveled      float64            `json:"distance_traveled" yaml:"distance_traveled"`
	DistanceToDestination float64            `json:"distance_to_destination" yaml:"distance_to_destination"`
	CurrentWeather        weather.Conditions `json:"current_weather" yaml:"current_weather"`
	SuppliesConsumed      Consumption        `json:"supplies_consumed" yaml:"supplies_consumed"`
	Log                   []logbook.Entry    `json:"log" yaml:"log"`
}

// Arrived reports whether the ship has made port.
func (s State) Arrived() bool {
	return s.DistanceToDestination <= 0
}

// Clone returns a copy that shares no log storage with s.
func (s State) Clone() State {
	out := s
	out.Log = append([]logbook.Entry(nil), s.Log...)
	return out
}

// Start opens a voyage of the given distance in miles.
func Start(sh ship.Ship, distance float64) State {
	if distance < 0 {
		distance = 0
	}
	return State{
		ShipID:                sh.ID,
		Status:                StatusSailing,
		Rationing:             RationNormal,
		DistanceToDestination: distance,
		CurrentWeather:        weather.Fair(),
		Log: []logbook.Entry{
			logbook.Dayf(0, logbook.Info, "The %s weighs anchor with %s miles to go and %d hands aboard",
				sh.Name, humanize.Comma(int64(distance)), sh.Crew.Count()),
		},
	}
}

// SetRationing changes the ration policy and logs it.
func SetRationing(s State, level Rationing) State {
	out := s.Clone()
	if _, ok := rations[level]; !ok {
		level = RationNormal
	}
	if out.Rationing == level {
		return out
	}
	out.Rationing = level
	typ := logbook.Info
	if level != RationNormal {
		typ = logbook.Warning
	}
	out.Log = append(out.Log, logbook.Dayf(out.DaysAtSea, typ, "Rations set to %s", level))
	return out
}

func (r Rationing) String() string {
	return string(r)
}

func (s Status) String() string {
	return string(s)
}

// Summary is a one-line progress report for hosts.
func (s State) Summary() string {
	return fmt.Sprintf("day %d, %s: %s miles sailed, %s to go",
		s.DaysAtSea, s.Status,
		humanize.Comma(int64(s.DistanceTraveled)), humanize.Comma(int64(s.DistanceToDestination)))
}
