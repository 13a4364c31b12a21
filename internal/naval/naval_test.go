package naval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/ship"
)

// hit rolls a natural 20 and maximum damage on every die.
func hit() *entropy.Scripted { return &entropy.Scripted{Ints: []int{19}} }

// miss rolls a natural 1 and minimum damage on every die.
func miss() *entropy.Scripted { return &entropy.Scripted{Ints: []int{0}} }

func crewed(t *testing.T, typ ship.Type, name string, hands int, seed int64) ship.Ship {
	t.Helper()
	src := entropy.NewSeeded(seed)
	s, err := ship.Create(name, typ, src)
	require.NoError(t, err)
	s.Crew = crew.GenerateCrew(crew.StandardComplement(hands), 1, src)
	s.Cargo.Ammunition = 100
	return s
}

func duel(t *testing.T) (State, string, string) {
	t.Helper()
	a := crewed(t, "frigate", "Defiant", 30, 1)
	b := crewed(t, "frigate", "Vengeance", 30, 2)
	st := InitializeDuel(a, b, &entropy.Scripted{})
	return st, a.ID, b.ID
}

func placeAt(st State, id string, x float64) {
	st.Ships[id].Position = Position{X: x}
}

func TestRangeCategory(t *testing.T) {
	tests := []struct {
		d    float64
		want Range
	}{
		{0, RangeBoarding},
		{100, RangeBoarding},
		{100.5, RangeShort},
		{1000, RangeShort},
		{1001, RangeMedium},
		{3000, RangeMedium},
		{3000.1, RangeLong},
		{20000, RangeLong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RangeCategory(tt.d), "%v ft", tt.d)
	}
}

func TestInitializeDuel(t *testing.T) {
	st, a, b := duel(t)

	assert.Equal(t, 1, st.Round)
	assert.Equal(t, StartingDistance, st.Distance(a, b))
	assert.Equal(t, RangeMedium, RangeCategory(st.Distance(a, b)))
	assert.Equal(t, 180.0, st.WindDirection)
	require.Len(t, st.Log, 1)

	for _, id := range []string{a, b} {
		c := st.Ships[id]
		assert.Equal(t, 350, c.CurrentHullPoints)
		assert.Equal(t, 350, c.MaxHullPoints)
		assert.Equal(t, 30, c.CurrentCrew)
		assert.Equal(t, 100, c.Ammunition)
		assert.Empty(t, c.Cooldowns)
		assert.Empty(t, c.Effects)
		assert.False(t, c.Destroyed)
	}
	assert.False(t, st.Over())
}

func TestInitializeDuelSameID(t *testing.T) {
	a := crewed(t, "sloop", "Twin", 6, 5)
	st := InitializeDuel(a, a, &entropy.Scripted{})
	assert.Len(t, st.Ships, 2)
	assert.Len(t, st.Order, 2)
}

func TestBroadsideHits(t *testing.T) {
	st, a, b := duel(t)

	next, out, err := ExecuteManeuver(st, a, "broadside", b, hit())
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 20, out.Roll)
	assert.Equal(t, 160, out.Damage) // four heavy cannon at 4d10
	assert.Equal(t, 190, next.Ships[b].CurrentHullPoints)
	assert.Equal(t, 22, next.Ships[b].CurrentCrew)
	assert.Equal(t, 98, next.Ships[a].Ammunition)
	assert.Equal(t, 2, next.Ships[a].Cooldowns["broadside"])
	assert.Greater(t, len(next.Log), len(st.Log))

	// Input untouched.
	assert.Equal(t, 350, st.Ships[b].CurrentHullPoints)
	assert.Empty(t, st.Ships[a].Cooldowns)
}

func TestFailedRollStillCostsCooldown(t *testing.T) {
	st, a, b := duel(t)

	next, out, err := ExecuteManeuver(st, a, "broadside", b, miss())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Zero(t, out.Damage)
	assert.Equal(t, 350, next.Ships[b].CurrentHullPoints)
	assert.Equal(t, 2, next.Ships[a].Cooldowns["broadside"])
	assert.Len(t, next.Log, len(st.Log)+1)
}

func TestCooldownRejectsWithoutChange(t *testing.T) {
	st, a, b := duel(t)
	st, _, err := ExecuteManeuver(st, a, "full_sail", "", hit())
	require.NoError(t, err)
	require.Contains(t, st.Ships[a].Effects, "full_sail")

	before := st.Clone()
	after, out, err := ExecuteManeuver(st, a, "full_sail", "", hit())
	require.ErrorIs(t, err, ErrOnCooldown)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Reason)
	assert.Equal(t, before, after)
	assert.Equal(t, before.Ships[b], after.Ships[b])

	// cooldown 2 → counter 3: usable again after three round ends.
	for i := 0; i < 2; i++ {
		st = EndRound(st)
		require.ErrorIs(t, Validate(st, a, "full_sail", ""), ErrOnCooldown)
	}
	st = EndRound(st)
	assert.NoError(t, Validate(st, a, "full_sail", ""))
}

func TestBroadsideAtLongRange(t *testing.T) {
	st, a, b := duel(t)
	placeAt(st, b, 5000)

	next, out, err := ExecuteManeuver(st, a, "broadside", b, hit())
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Zero(t, out.Damage)
	assert.Equal(t, 350, next.Ships[b].CurrentHullPoints)
	assert.Equal(t, 100, next.Ships[a].Ammunition)
}

func TestRequirementRejections(t *testing.T) {
	st, a, b := duel(t)

	tests := []struct {
		name  string
		setup func(st State)
		id    string
		tgt   string
		want  error
	}{
		{"no target", func(State) {}, "broadside", "", ErrNoTarget},
		{"unknown target", func(State) {}, "broadside", "ghost", ErrUnknownShip},
		{"short handed", func(st State) { st.Ships[a].CurrentCrew = 3 }, "broadside", b, ErrInsufficientCrew},
		{"no gunner", func(st State) {
			st.Ships[a].Ship.Crew = crew.New([]crew.Member{{ID: "x", Role: crew.RoleSailor}})
		}, "broadside", b, ErrMissingRole},
		{"no shot", func(st State) { st.Ships[a].Ammunition = 1 }, "broadside", b, ErrNoAmmunition},
		{"unknown maneuver", func(State) {}, "brodside", b, ErrUnknownManeuver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := st.Clone()
			tt.setup(s)
			_, _, err := ExecuteManeuver(s, a, tt.id, tt.tgt, hit())
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := ExecuteManeuver(st, "ghost", "broadside", b, hit())
	require.ErrorIs(t, err, ErrUnknownShip)

	err = Validate(st, a, "brodside", b)
	assert.Contains(t, err.Error(), `did you mean "broadside"`)
}

func TestDestroyedShipIsInert(t *testing.T) {
	st, a, b := duel(t)
	st.Ships[b].CurrentHullPoints = 50

	next, out, err := ExecuteManeuver(st, a, "broadside", b, hit())
	require.NoError(t, err)
	assert.True(t, out.Destroyed)
	assert.Equal(t, 50, out.Damage)
	assert.Zero(t, next.Ships[b].CurrentHullPoints)
	assert.True(t, next.Ships[b].Destroyed)
	assert.Contains(t, next.Ships, b, "wrecks stay in the state")

	next = EndRound(EndRound(next))
	_, _, err = ExecuteManeuver(next, a, "broadside", b, hit())
	require.ErrorIs(t, err, ErrShipDestroyed)
	_, _, err = ExecuteManeuver(next, b, "evasive_action", "", hit())
	require.ErrorIs(t, err, ErrShipDestroyed)

	assert.True(t, next.Over())
	w, ok := next.Winner()
	assert.True(t, ok)
	assert.Equal(t, a, w)

	wreck, ok := next.Ship(b)
	require.True(t, ok)
	assert.True(t, wreck.Sunk())
	assert.Zero(t, wreck.Stats.HullPoints)
}

func TestCloseDistance(t *testing.T) {
	st, a, b := duel(t)
	speed := st.Ships[a].Speed()

	next, out, err := ExecuteManeuver(st, a, "close_distance", b, hit())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.InDelta(t, StartingDistance-10*speed, next.Distance(a, b), 1e-6)
	assert.InDelta(t, 90, next.Ships[a].Heading, 1e-9)

	opened, _, err := ExecuteManeuver(next, b, "open_distance", a, hit())
	require.NoError(t, err)
	assert.Greater(t, opened.Distance(a, b), next.Distance(a, b))
}

func TestCloseDistanceStopsAlongside(t *testing.T) {
	st, a, b := duel(t)
	placeAt(st, b, 300)
	next, _, err := ExecuteManeuver(st, a, "close_distance", b, hit())
	require.NoError(t, err)
	assert.InDelta(t, 0, next.Distance(a, b), 1e-9)
}

func TestGrapple(t *testing.T) {
	st, a, b := duel(t)
	placeAt(st, b, 80)

	next, out, err := ExecuteManeuver(st, a, "grapple", b, hit())
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.True(t, next.Ships[a].Grappled())
	assert.True(t, next.Ships[b].Grappled())
	assert.InDelta(t, 0, next.Distance(a, b), 1e-9)

	_, _, err = ExecuteManeuver(next, b, "open_distance", a, hit())
	require.ErrorIs(t, err, ErrGrappled)
	_, _, err = ExecuteManeuver(next, b, "full_sail", "", hit())
	require.ErrorIs(t, err, ErrGrappled)

	for i := 0; i < 3; i++ {
		next = EndRound(next)
	}
	assert.False(t, next.Ships[a].Grappled())
	assert.False(t, next.Ships[b].Grappled())
	assert.NoError(t, Validate(next, b, "open_distance", a))
}

func TestRam(t *testing.T) {
	plain, a, b := duel(t)
	placeAt(plain, b, 80)

	_, out, err := ExecuteManeuver(plain, a, "ram", b, hit())
	require.NoError(t, err)
	assert.Equal(t, 40, out.Damage)
	assert.Equal(t, 10, out.SelfDamage)

	rammer := crewed(t, "frigate", "Defiant", 30, 1)
	rammer, err = ship.InstallModification(rammer, ship.DefaultModifications["ram"])
	require.NoError(t, err)
	st := InitializeDuel(rammer, crewed(t, "frigate", "Vengeance", 30, 2), &entropy.Scripted{})
	placeAt(st, b, 80)

	_, out, err = ExecuteManeuver(st, rammer.ID, "ram", b, hit())
	require.NoError(t, err)
	assert.Equal(t, 60, out.Damage, "fitted ram adds 2d10")
}

func TestRamFailureHurtsRammer(t *testing.T) {
	st, a, b := duel(t)
	placeAt(st, b, 80)

	next, out, err := ExecuteManeuver(st, a, "ram", b, miss())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Zero(t, out.Damage)
	assert.Equal(t, 2, out.SelfDamage)
	assert.Equal(t, 348, next.Ships[a].CurrentHullPoints)
}

func TestEmergencyRepairs(t *testing.T) {
	st, a, _ := duel(t)
	st.Ships[a].CurrentHullPoints = 340

	next, out, err := ExecuteManeuver(st, a, "emergency_repairs", "", hit())
	require.NoError(t, err)
	assert.Equal(t, 10, out.Repaired)
	assert.Equal(t, 350, next.Ships[a].CurrentHullPoints)
}

func TestEndRound(t *testing.T) {
	st, a, b := duel(t)
	st, _, err := ExecuteManeuver(st, a, "evasive_action", "", hit())
	require.NoError(t, err)
	st.Ships[b].Cooldowns["ram"] = 1
	ac := st.Ships[a].ArmorClass()

	r2 := EndRound(st)
	assert.Equal(t, 2, r2.Round)
	assert.Equal(t, 1, r2.Ships[a].Cooldowns["evasive_action"])
	assert.NotContains(t, r2.Ships[b].Cooldowns, "ram")
	assert.Equal(t, 1, r2.Ships[a].Effects["evasive_action"].Remaining)
	assert.Equal(t, ac, r2.Ships[a].ArmorClass())
	assert.Equal(t, "Round 2 begins", r2.Log[len(r2.Log)-1].Message)

	r3 := EndRound(r2)
	assert.Empty(t, r3.Ships[a].Effects)
	assert.Empty(t, r3.Ships[a].Cooldowns)
	assert.Equal(t, ac-3, r3.Ships[a].ArmorClass())

	// The input round is untouched.
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 2, st.Ships[a].Cooldowns["evasive_action"])
}

func TestStateJSONRoundTrip(t *testing.T) {
	st, a, b := duel(t)
	placeAt(st, b, 900)
	st, _, err := ExecuteManeuver(st, a, "chain_shot", b, hit())
	require.NoError(t, err)
	st, _, err = ExecuteManeuver(st, b, "evasive_action", "", hit())
	require.NoError(t, err)
	require.NotEmpty(t, st.Ships[b].Effects)
	require.NotEmpty(t, st.Ships[a].Cooldowns)

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, st, back)
	assert.Equal(t, st.Ships[b].Effects, back.Ships[b].Effects)
	assert.Equal(t, st.Ships[a].Cooldowns, back.Ships[a].Cooldowns)
}

func TestDuelTerminates(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		a := crewed(t, "frigate", "Defiant", 30, seed)
		b := crewed(t, "sloop", "Kestrel", 10, seed+100)

		st := Duel(a, b, DefaultRoundLimit, entropy.NewSeeded(seed))
		assert.True(t, st.Over() || st.Round > DefaultRoundLimit, "seed %d", seed)
		for _, c := range st.Ships {
			assert.GreaterOrEqual(t, c.CurrentHullPoints, 0)
			assert.LessOrEqual(t, c.CurrentHullPoints, c.MaxHullPoints)
			assert.GreaterOrEqual(t, c.Ammunition, 0)
		}
		if w, ok := st.Winner(); ok {
			assert.Contains(t, []string{a.ID, b.ID}, w)
		}
	}
}

func TestDuelReplays(t *testing.T) {
	a := crewed(t, "brigantine", "Osprey", 20, 3)
	b := crewed(t, "sloop", "Kestrel", 10, 4)

	one := Duel(a, b, 30, entropy.NewSeeded(9))
	two := Duel(a, b, 30, entropy.NewSeeded(9))
	assert.Equal(t, one, two)
}

func TestShipWriteBack(t *testing.T) {
	st, a, b := duel(t)
	next, _, err := ExecuteManeuver(st, a, "broadside", b, hit())
	require.NoError(t, err)

	s, ok := next.Ship(b)
	require.True(t, ok)
	assert.Equal(t, 190, s.Stats.HullPoints)
	assert.Equal(t, 22, s.Crew.Count())
	assert.False(t, s.Sunk())

	_, ok = next.Ship("ghost")
	assert.False(t, ok)
}
