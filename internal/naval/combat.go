package naval

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/ship"
)

var (
	ErrUnknownShip      = errors.New("unknown ship")
	ErrShipDestroyed    = errors.New("ship destroyed")
	ErrOnCooldown       = errors.New("maneuver on cooldown")
	ErrNoTarget         = errors.New("maneuver needs a target")
	ErrOutOfRange       = errors.New("target out of range")
	ErrInsufficientCrew = errors.New("insufficient crew")
	ErrMissingRole      = errors.New("missing crew role")
	ErrNoAmmunition     = errors.New("no ammunition")
	ErrGrappled         = errors.New("ship is grappled")
)

// hands lost per point of hull damage taken
const crewLossPerDamage = 1.0 / 20

// Outcome reports what an attempted maneuver did.
type Outcome struct {
	ManeuverID string `json:"maneuver_id"`
	AttackerID string `json:"attacker_id"`
	TargetID   string `json:"target_id,omitempty"`
	Success    bool   `json:"success"`
	Roll       int    `json:"roll"`
	Total      int    `json:"total"`
	Difficulty int    `json:"difficulty"`
	Damage     int    `json:"damage"`
	SelfDamage int    `json:"self_damage"`
	Repaired   int    `json:"repaired"`
	Destroyed  bool   `json:"destroyed"`
	Reason     string `json:"reason,omitempty"`
}

// Engine resolves maneuvers from a catalog.
type Engine struct {
	Maneuvers Maneuvers
}

// NewEngine returns an engine over the catalog, or DefaultManeuvers when nil.
func NewEngine(m Maneuvers) *Engine {
	if len(m) == 0 {
		m = DefaultManeuvers
	}
	return &Engine{Maneuvers: m}
}

var defaultEngine = NewEngine(nil)

// InitializeDuel sets two ships StartingDistance apart on round 1.
func InitializeDuel(a, b ship.Ship, src entropy.Source) State {
	if a.ID == b.ID {
		b.ID += "-2"
	}
	ca := newCombatShip(a, Position{X: 0}, 90)
	cb := newCombatShip(b, Position{X: StartingDistance}, 270)

	st := State{
		Ships:         map[string]*CombatShip{a.ID: ca, b.ID: cb},
		Order:         []string{a.ID, b.ID},
		Round:         1,
		WindDirection: math.Floor(src.Float64() * 360),
		WindSpeed:     math.Round(entropy.Between(src, 5, 30)),
	}
	st.Log = append(st.Log, logbook.Roundf(1, logbook.Info, "The %s and the %s clear for action at %s feet, wind %.0f knots from %.0f°",
		a.Name, b.Name, humanize.Comma(int64(StartingDistance)), st.WindSpeed, st.WindDirection))
	return st
}

func newCombatShip(s ship.Ship, pos Position, heading float64) *CombatShip {
	stats := ship.CalculateStats(s)
	return &CombatShip{
		Ship:              s.Clone(),
		CurrentSpeed:      stats.Speed,
		CurrentHullPoints: stats.HullPoints,
		MaxHullPoints:     stats.MaxHullPoints,
		CurrentCrew:       s.Crew.Count(),
		BaseManeuver:      stats.Maneuverability,
		BaseArmorClass:    stats.ArmorClass,
		Ammunition:        s.Cargo.Ammunition,
		Effects:           map[string]Effect{},
		Cooldowns:         map[string]int{},
		Position:          pos,
		Heading:           heading,
		Destroyed:         s.Sunk() || stats.HullPoints == 0,
	}
}

// Validate checks whether a maneuver may be attempted without rolling.
func Validate(st State, attackerID, maneuverID, targetID string) error {
	return defaultEngine.Validate(st, attackerID, maneuverID, targetID)
}

// ExecuteManeuver resolves with DefaultManeuvers.
func ExecuteManeuver(st State, attackerID, maneuverID, targetID string, src entropy.Source) (State, Outcome, error) {
	return defaultEngine.ExecuteManeuver(st, attackerID, maneuverID, targetID, src)
}

// Validate checks whether a maneuver may be attempted without rolling.
func (e *Engine) Validate(st State, attackerID, maneuverID, targetID string) error {
	_, err := e.check(st, attackerID, maneuverID, targetID)
	return err
}

func (e *Engine) check(st State, attackerID, maneuverID, targetID string) (Maneuver, error) {
	att := st.Ships[attackerID]
	if att == nil {
		return Maneuver{}, fmt.Errorf("%w %q", ErrUnknownShip, attackerID)
	}
	m, err := e.Maneuvers.Get(maneuverID)
	if err != nil {
		return Maneuver{}, err
	}
	if att.Destroyed {
		return m, fmt.Errorf("%w: %s", ErrShipDestroyed, att.Ship.Name)
	}
	if cd := att.Cooldowns[m.ID]; cd > 0 {
		return m, fmt.Errorf("%w: %s ready in %d rounds", ErrOnCooldown, m.Name, cd)
	}

	if targetID != "" {
		tgt := st.Ships[targetID]
		if tgt == nil || targetID == attackerID {
			return m, fmt.Errorf("%w %q", ErrUnknownShip, targetID)
		}
		if tgt.Destroyed {
			return m, fmt.Errorf("%w: %s", ErrShipDestroyed, tgt.Ship.Name)
		}
		if r := RangeCategory(st.Distance(attackerID, targetID)); !m.AllowsRange(r) {
			return m, fmt.Errorf("%w: %s at %s range", ErrOutOfRange, m.Name, r)
		}
	} else if m.NeedsTarget() {
		return m, fmt.Errorf("%w: %s", ErrNoTarget, m.Name)
	}

	req := m.Requirements
	if att.CurrentCrew < req.MinCrew {
		return m, fmt.Errorf("%w: %s needs %d hands, %d aboard", ErrInsufficientCrew, m.Name, req.MinCrew, att.CurrentCrew)
	}
	if req.RequiredRole != "" && !att.Ship.Crew.HasRole(req.RequiredRole) {
		return m, fmt.Errorf("%w: %s needs a %s", ErrMissingRole, m.Name, req.RequiredRole)
	}
	if att.Ammunition < req.Ammo {
		return m, fmt.Errorf("%w: %s needs %d shot, %d left", ErrNoAmmunition, m.Name, req.Ammo, att.Ammunition)
	}
	if m.Type == Movement && att.Grappled() {
		return m, fmt.Errorf("%w: cannot %s", ErrGrappled, m.Name)
	}
	return m, nil
}

// ExecuteManeuver attempts a maneuver. A rejected maneuver returns st
// unchanged with the reason in both the error and Outcome.Reason. An
// attempted maneuver, hit or miss, sets its cooldown and logs.
func (e *Engine) ExecuteManeuver(st State, attackerID, maneuverID, targetID string, src entropy.Source) (State, Outcome, error) {
	out := Outcome{ManeuverID: maneuverID, AttackerID: attackerID, TargetID: targetID}
	m, err := e.check(st, attackerID, maneuverID, targetID)
	if err != nil {
		out.Reason = err.Error()
		return st, out, err
	}

	next := st.Clone()
	att := next.Ships[attackerID]
	tgt := next.Ships[targetID]

	out.Roll = entropy.D20(src)
	out.Total = out.Roll + att.Maneuverability()
	out.Difficulty = m.Difficulty
	out.Success = out.Total >= m.Difficulty

	res := m.Failure
	verdict := "fails"
	if out.Success {
		res = m.Success
		verdict = "succeeds"
	}

	att.Ammunition -= m.Requirements.Ammo
	if att.Cooldowns == nil {
		att.Cooldowns = make(map[string]int)
	}
	att.Cooldowns[m.ID] = m.Cooldown + 1

	typ := logbook.Maneuver
	if m.Type == Offensive {
		typ = logbook.Attack
	}
	next.Log = append(next.Log, logbook.Roundf(next.Round, typ, "%s attempts %s (%d%+d = %d vs %d) and %s: %s",
		att.Ship.Name, m.Name, out.Roll, att.Maneuverability(), out.Total, m.Difficulty, verdict, res.Message))

	resolve(&next, m, res, att, tgt, &out, src)
	return next, out, nil
}

// resolve applies a result according to the maneuver's kind.
func resolve(st *State, m Maneuver, res Result, att, tgt *CombatShip, out *Outcome, src entropy.Source) {
	switch m.Kind {
	case KindMove:
		approach(att, tgt, res.Approach*att.Speed())
	case KindAttack:
		dmg := 0
		if res.Weapons && len(att.Ship.Weapons) > 0 {
			for _, w := range att.Ship.Weapons {
				if entropy.D20(src)+w.AttackBonus >= tgt.ArmorClass() {
					dmg += w.Damage.Roll(src)
				}
			}
		} else {
			dmg = res.Dice.Roll(src)
		}
		out.Damage = damage(st, tgt, dmg)
	case KindRam:
		dmg := res.Dice.Roll(src)
		if out.Success && att.Ship.HasModification(RamModification) {
			dmg += ramBonus.Roll(src)
		}
		out.Damage = damage(st, tgt, dmg)
		if out.Success {
			approach(att, tgt, math.Inf(1))
		}
	case KindGrapple:
		if out.Success {
			approach(att, tgt, math.Inf(1))
		}
	case KindRepair:
		before := att.CurrentHullPoints
		att.CurrentHullPoints = min(att.MaxHullPoints, att.CurrentHullPoints+res.Dice.Roll(src))
		out.Repaired = att.CurrentHullPoints - before
		if out.Repaired > 0 {
			st.Log = append(st.Log, logbook.Roundf(st.Round, logbook.Info, "%s restores %d hull (%d/%d)",
				att.Ship.Name, out.Repaired, att.CurrentHullPoints, att.MaxHullPoints))
		}
	case KindBuff:
	}

	if res.Self != nil {
		att.applyEffect(res.Self.effect(m.ID))
	}
	if res.Target != nil && tgt != nil && !tgt.Destroyed {
		tgt.applyEffect(res.Target.effect(m.ID))
	}
	if !res.SelfDamage.IsZero() {
		out.SelfDamage = damage(st, att, res.SelfDamage.Roll(src))
	}
	out.Destroyed = tgt != nil && tgt.Destroyed
}

// approach moves att toward tgt by feet, stopping alongside it. Negative
// feet move away.
func approach(att, tgt *CombatShip, feet float64) {
	if tgt == nil || feet == 0 {
		return
	}
	dx := tgt.Position.X - att.Position.X
	dy := tgt.Position.Y - att.Position.Y
	d := math.Hypot(dx, dy)

	ux, uy := 1.0, 0.0
	if d > 0 {
		ux, uy = dx/d, dy/d
	}
	feet = min(feet, d)
	att.Position.X += ux * feet
	att.Position.Y += uy * feet

	// Compass bearing: 0 is north (+Y), 90 is east (+X).
	heading := math.Atan2(ux, uy) * 180 / math.Pi
	if feet < 0 {
		heading += 180
	}
	att.Heading = math.Mod(heading+360, 360)
}

// damage reduces hull, floored at 0, kills hands and marks destruction.
// Returns the damage dealt.
func damage(st *State, c *CombatShip, amount int) int {
	if c == nil || amount <= 0 || c.Destroyed {
		return 0
	}
	amount = min(amount, c.CurrentHullPoints)
	c.CurrentHullPoints -= amount
	c.CurrentCrew = max(0, c.CurrentCrew-int(float64(amount)*crewLossPerDamage))

	st.Log = append(st.Log, logbook.Roundf(st.Round, logbook.Attack, "%s takes %d damage (%d/%d hull, %d hands)",
		c.Ship.Name, amount, c.CurrentHullPoints, c.MaxHullPoints, c.CurrentCrew))
	if c.CurrentHullPoints == 0 {
		c.Destroyed = true
		st.Log = append(st.Log, logbook.Roundf(st.Round, logbook.Warning, "The %s is destroyed and slips beneath the waves", c.Ship.Name))
	}
	return amount
}

// EndRound advances the round, ticks cooldowns down and expires effects.
func EndRound(st State) State {
	next := st.Clone()
	next.Round++
	for _, id := range next.Order {
		c := next.Ships[id]
		for k, cd := range c.Cooldowns {
			if cd <= 1 {
				delete(c.Cooldowns, k)
			} else {
				c.Cooldowns[k] = cd - 1
			}
		}
		for k, e := range c.Effects {
			e.Remaining--
			if e.Remaining <= 0 {
				delete(c.Effects, k)
			} else {
				c.Effects[k] = e
			}
		}
	}
	next.Log = append(next.Log, logbook.Roundf(next.Round, logbook.Info, "Round %d begins", next.Round))
	return next
}
