// Package engine provides the day-tick loop that drives a voyage in real
// time, and the Simulation it drives.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DaysPerWeek sets how often OnWeek fires.
const DaysPerWeek = 7

// Engine drives the simulation forward one sea-day per tick.
type Engine struct {
	Day      uint64        // Days ticked (monotonic, never resets)
	Interval time.Duration // Real time per day at speed 1.0

	// Callbacks, populated during setup.
	OnDay  func(day uint64)
	OnWeek func(day uint64)

	mu      sync.Mutex
	speed   float64 // 1.0 = one day per Interval, 0 = paused
	running bool
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Interval: 2 * time.Second,
		speed:    1.0,
	}
}

// Speed returns the current multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the multiplier; 0 pauses.
func (e *Engine) SetSpeed(v float64) {
	if v < 0 {
		v = 0
	}
	e.mu.Lock()
	e.speed = v
	e.mu.Unlock()
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	slog.Info("voyage engine started", "day", e.Day, "speed", e.Speed())

	for e.Running() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("voyage engine stopped", "day", e.Day)
}

// Stop halts the loop after the current day.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// Step advances one day and fires the callbacks that are due.
func (e *Engine) Step() {
	e.Day++

	if e.OnDay != nil {
		e.OnDay(e.Day)
	}
	if e.Day%DaysPerWeek == 0 && e.OnWeek != nil {
		e.OnWeek(e.Day)
	}
}

// SeaTime formats a day count as weeks and days out.
func SeaTime(day uint64) string {
	if day == 0 {
		return "in port"
	}
	return fmt.Sprintf("Week %d, day %d", (day-1)/DaysPerWeek+1, (day-1)%DaysPerWeek+1)
}
