// Package logbook defines the structured log lines the voyage and combat
// engines hand to their hosts.
package logbook

import "fmt"

// Type tags an entry for display.
type Type string

const (
	Info      Type = "info"
	Warning   Type = "warning"
	Discovery Type = "discovery"
	Fluff     Type = "fluff"
	Attack    Type = "attack"
	Maneuver  Type = "maneuver"
)

// Entry is one line in a voyage or combat log. Voyage entries carry Day,
// combat entries carry Round.
type Entry struct {
	Day     int    `json:"day,omitempty" yaml:"day,omitempty"`
	Round   int    `json:"round,omitempty" yaml:"round,omitempty"`
	Message string `json:"message" yaml:"message"`
	Type    Type   `json:"type" yaml:"type"`
}

// Dayf builds a voyage entry.
func Dayf(day int, typ Type, format string, args ...any) Entry {
	return Entry{Day: day, Type: typ, Message: fmt.Sprintf(format, args...)}
}

// Roundf builds a combat entry.
func Roundf(round int, typ Type, format string, args ...any) Entry {
	return Entry{Round: round, Type: typ, Message: fmt.Sprintf(format, args...)}
}

func (e Entry) String() string {
	if e.Round > 0 {
		return fmt.Sprintf("[round %d] %s", e.Round, e.Message)
	}
	return fmt.Sprintf("[day %d] %s", e.Day, e.Message)
}
