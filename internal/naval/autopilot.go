package naval

import (
	"errors"

	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
)

// ErrNoLegalManeuver is returned when autopilot finds nothing to do.
var ErrNoLegalManeuver = errors.New("no legal maneuver")

// DefaultRoundLimit caps autopiloted duels.
const DefaultRoundLimit = 60

// AutopilotOrder is the priority list autopilot walks.
var AutopilotOrder = []string{
	"emergency_repairs",
	"broadside",
	"chain_shot",
	"ram",
	"close_distance",
	"evasive_action",
	"full_sail",
	"grapple",
}

// Autopilot attempts the first legal maneuver in AutopilotOrder. Repairs
// are only considered below half hull.
func (e *Engine) Autopilot(st State, shipID, targetID string, src entropy.Source) (State, Outcome, error) {
	me := st.Ships[shipID]
	if me == nil {
		return st, Outcome{AttackerID: shipID}, ErrUnknownShip
	}
	for _, id := range AutopilotOrder {
		m, ok := e.Maneuvers[id]
		if !ok {
			continue
		}
		if m.Kind == KindRepair && me.CurrentHullPoints*2 >= me.MaxHullPoints {
			continue
		}
		target := ""
		if m.NeedsTarget() {
			target = targetID
		}
		if e.Validate(st, shipID, id, target) == nil {
			return e.ExecuteManeuver(st, shipID, id, target, src)
		}
	}
	return st, Outcome{AttackerID: shipID, TargetID: targetID}, ErrNoLegalManeuver
}

// Duel autopilots both ships round by round until one is left afloat or
// maxRounds have been fought.
func (e *Engine) Duel(a, b ship.Ship, maxRounds int, src entropy.Source) State {
	if maxRounds <= 0 {
		maxRounds = DefaultRoundLimit
	}
	st := InitializeDuel(a, b, src)
	ids := st.Order

	for st.Round <= maxRounds && !st.Over() {
		for i, id := range ids {
			if st.Over() {
				break
			}
			next, _, err := e.Autopilot(st, id, ids[1-i], src)
			if err != nil {
				next.Log = append(next.Log, logbook.Roundf(next.Round, logbook.Info, "%s holds course", next.Ships[id].Ship.Name))
			}
			st = next
		}
		if st.Over() {
			break
		}
		st = EndRound(st)
	}

	if w, ok := st.Winner(); ok {
		st.Log = append(st.Log, logbook.Roundf(st.Round, logbook.Info, "The %s carries the day", st.Ships[w].Ship.Name))
	} else {
		st.Log = append(st.Log, logbook.Roundf(st.Round, logbook.Info, "Both ships break off as night falls"))
	}
	return st
}

// Duel runs an autopiloted duel with DefaultManeuvers.
func Duel(a, b ship.Ship, maxRounds int, src entropy.Source) State {
	return defaultEngine.Duel(a, b, maxRounds, src)
}
