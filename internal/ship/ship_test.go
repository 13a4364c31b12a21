package ship

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seaworthy/internal/crew"
	"github.com/talgya/seaworthy/internal/entropy"
)

func sailors(n int, morale float64) []crew.Member {
	out := make([]crew.Member, n)
	for i := range out {
		out[i] = crew.Member{
			ID:      fmt.Sprintf("m%d", i),
			Name:    "Sailor",
			Role:    crew.RoleSailor,
			Skills:  map[crew.Skill]int{crew.SkillSailing: 2},
			Morale:  morale,
			Loyalty: 50,
		}
	}
	return out
}

func newSloop(t *testing.T) Ship {
	t.Helper()
	s, err := Create("Kestrel", "sloop", entropy.NewSeeded(1))
	require.NoError(t, err)
	return s
}

func TestCreate(t *testing.T) {
	s := newSloop(t)
	assert.Equal(t, "Kestrel", s.Name)
	assert.Equal(t, Type("sloop"), s.Type)
	assert.Equal(t, SizeLarge, s.Size)
	assert.Equal(t, 60.0, s.Stats.Speed)
	assert.Equal(t, 150, s.Stats.HullPoints)
	assert.Equal(t, 150, s.Stats.MaxHullPoints)
	assert.Equal(t, 0, s.Crew.Count())
	assert.Empty(t, s.Modifications)
	assert.Zero(t, s.Cargo.Supplies.Food)
	assert.Len(t, s.Weapons, 2)
	assert.NotEmpty(t, s.ID)
}

func TestCreateDefaultsName(t *testing.T) {
	s, err := Create("", "galleon", entropy.NewSeeded(1))
	require.NoError(t, err)
	assert.Equal(t, "Galleon", s.Name)
}

func TestCreateUnknownType(t *testing.T) {
	_, err := Create("Ghost", "galeon", entropy.NewSeeded(1))
	require.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), `did you mean "galleon"`)
}

func TestCrewShortfallScalesSpeed(t *testing.T) {
	s := newSloop(t)
	s.Crew = crew.New(sailors(1, 60))

	st := CalculateStats(s)
	assert.Equal(t, 15.0, st.Speed) // 60 × 1/4
	assert.Equal(t, 2-3, st.Maneuverability)
}

func TestEmptyCrewStopsShip(t *testing.T) {
	st := CalculateStats(newSloop(t))
	assert.Equal(t, 0.0, st.Speed)
}

func TestMoraleThresholds(t *testing.T) {
	tests := []struct {
		name      string
		morale    float64
		wantSpeed float64
		wantManeu int
	}{
		{"high morale", 90, 66, 3},
		{"steady", 60, 60, 2},
		{"at upper threshold", 80, 60, 2},
		{"at lower threshold", 40, 60, 2},
		{"low morale", 30, 48, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSloop(t)
			s.Crew = crew.New(sailors(4, tt.morale))
			st := CalculateStats(s)
			assert.InDelta(t, tt.wantSpeed, st.Speed, 1e-9)
			assert.Equal(t, tt.wantManeu, st.Maneuverability)
		})
	}
}

func TestAddsBeforeMultiplies(t *testing.T) {
	s := newSloop(t)
	s.Crew = crew.New(sailors(4, 60))
	s.Modifications = []Modification{
		{ID: "double", Modifiers: []Modifier{{Stat: StatSpeed, Op: OpMultiply, Value: 2}}},
		{ID: "plus", Modifiers: []Modifier{{Stat: StatSpeed, Op: OpAdd, Value: 10}}},
	}
	assert.Equal(t, 140.0, CalculateStats(s).Speed)
}

func TestCalculateStatsClamps(t *testing.T) {
	src := entropy.NewSeeded(2024)
	stats := []StatKey{StatSpeed, StatManeuverability, StatHullPoints, StatMaxHullPoints, StatArmorClass, StatCrewMin}
	types := DefaultTemplates.Types()

	for i := 0; i < 500; i++ {
		s, err := Create("", Type(types[src.IntN(len(types))]), src)
		require.NoError(t, err)
		s.Crew = crew.New(sailors(src.IntN(12), float64(src.IntN(101))))

		for j := src.IntN(4); j > 0; j-- {
			mod := Modification{ID: fmt.Sprintf("mod%d", j)}
			for k := 1 + src.IntN(3); k > 0; k-- {
				op := OpAdd
				val := float64(src.IntN(801) - 400)
				if src.IntN(2) == 0 {
					op = OpMultiply
					val = entropy.Between(src, -1, 3)
				}
				mod.Modifiers = append(mod.Modifiers, Modifier{Stat: stats[src.IntN(len(stats))], Op: op, Value: val})
			}
			s.Modifications = append(s.Modifications, mod)
		}

		st := CalculateStats(s)
		assert.GreaterOrEqual(t, st.MaxHullPoints, 1)
		assert.LessOrEqual(t, st.HullPoints, st.MaxHullPoints)
		assert.GreaterOrEqual(t, st.HullPoints, 0)
		assert.GreaterOrEqual(t, st.Speed, 0.0)
	}
}

func TestInstallModification(t *testing.T) {
	s := newSloop(t)
	mod := DefaultModifications["copper_sheathing"]

	fitted, err := InstallModification(s, mod)
	require.NoError(t, err)
	assert.Len(t, fitted.Modifications, 1)
	assert.Empty(t, s.Modifications, "input ship untouched")

	again, err := InstallModification(fitted, mod)
	require.ErrorIs(t, err, ErrAlreadyInstalled)
	assert.Len(t, again.Modifications, 1)
	assert.Len(t, fitted.Modifications, 1)
}

func TestInstallModificationSizeRestriction(t *testing.T) {
	boat, err := Create("Dinghy", "rowboat", entropy.NewSeeded(1))
	require.NoError(t, err)

	_, err = InstallModification(boat, DefaultModifications["extra_sails"])
	require.ErrorIs(t, err, ErrUnsupportedSize)

	_, err = InstallModification(newSloop(t), DefaultModifications["extra_sails"])
	require.NoError(t, err)
}

func TestModificationsGet(t *testing.T) {
	_, err := DefaultModifications.Get("copper_sheeting")
	require.ErrorIs(t, err, ErrUnknownModification)
	assert.Contains(t, err.Error(), "copper_sheathing")

	m, err := DefaultModifications.Get("ram")
	require.NoError(t, err)
	assert.Equal(t, "Bronze Ram", m.Name)
}

func TestDamageAndRepair(t *testing.T) {
	s := newSloop(t)

	hit := ApplyDamage(s, 40)
	assert.Equal(t, 110, hit.Stats.HullPoints)
	assert.False(t, hit.Sunk())
	assert.Equal(t, 150, s.Stats.HullPoints)

	patched := Repair(hit, 100)
	assert.Equal(t, 150, patched.Stats.HullPoints)

	sunk := ApplyDamage(hit, 500)
	assert.Equal(t, 0, sunk.Stats.HullPoints)
	assert.True(t, sunk.Sunk())
	assert.Equal(t, 0, Repair(sunk, 50).Stats.HullPoints)
}

func TestRecruitCrew(t *testing.T) {
	s := newSloop(t)
	full, err := RecruitCrew(s, sailors(12, 70)...)
	require.NoError(t, err)
	assert.Equal(t, 12, full.Crew.Count())
	assert.Equal(t, 0, s.Crew.Count())

	_, err = RecruitCrew(full, sailors(1, 70)...)
	require.ErrorIs(t, err, ErrCrewFull)
}

func TestLoadSupplies(t *testing.T) {
	s := newSloop(t)
	loaded, err := LoadSupplies(s, 400, 400, 100)
	require.NoError(t, err)
	assert.Equal(t, 400.0, loaded.Cargo.Supplies.Food)
	assert.Equal(t, 100, loaded.Cargo.Ammunition)

	_, err = LoadSupplies(s, 10000, 10000, 0)
	require.ErrorIs(t, err, ErrOverCapacity)
}

func TestCloneIsDeep(t *testing.T) {
	s := newSloop(t)
	s.Crew = crew.New(sailors(2, 60))
	s.Flags = map[string]bool{"x": true}
	s.Cargo.Goods = map[string]int{"rum": 3}

	c := s.Clone()
	c.Crew.Members[0].Morale = 0
	c.Flags["x"] = false
	c.Cargo.Goods["rum"] = 0
	c.Weapons[0].Name = "changed"

	assert.Equal(t, 60.0, s.Crew.Members[0].Morale)
	assert.True(t, s.Flags["x"])
	assert.Equal(t, 3, s.Cargo.Goods["rum"])
	assert.Equal(t, "Swivel Gun", s.Weapons[0].Name)
}
