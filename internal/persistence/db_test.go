package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seaworthy/internal/catalog"
	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/voyage"
	"github.com/talgya/seaworthy/internal/weather"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "voyage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setup() engine.Setup {
	return engine.Setup{
		Seed: 3, Climate: weather.ClimateTropical, Catalog: catalog.Default(),
		ShipType: "sloop", ShipName: "Kestrel", CrewLevel: 2,
		Distance: 900, Funds: 200, Food: 300, Water: 300, Ammunition: 40,
		EnemyType: "sloop", EnemyName: "Marauder",
	}
}

func TestShipRoundTrip(t *testing.T) {
	db := openTemp(t)
	sh, err := engine.FitOut(setup())
	require.NoError(t, err)

	require.NoError(t, db.SaveShip(sh))
	got, err := db.LoadShip(sh.ID)
	require.NoError(t, err)
	assert.Equal(t, sh, got)

	sh.Stats.HullPoints = 10
	require.NoError(t, db.SaveShip(sh))
	got, err = db.LoadShip(sh.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stats.HullPoints)

	_, err = db.LoadShip("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVoyageRoundTrip(t *testing.T) {
	db := openTemp(t)
	sh, err := engine.FitOut(setup())
	require.NoError(t, err)

	st := voyage.Start(sh, 900)
	st = voyage.AdvanceDay(st, sh, weather.Fair(), 200, entropy.NewSeeded(1)).State

	require.NoError(t, db.SaveVoyage(st))
	require.NoError(t, db.AppendLog(sh.ID, st.Log))

	got, err := db.LoadVoyage(sh.ID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = db.LoadVoyage("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecentLog(t *testing.T) {
	db := openTemp(t)
	var entries []logbook.Entry
	for day := 1; day <= 5; day++ {
		entries = append(entries, logbook.Dayf(day, logbook.Info, "day %d", day))
	}
	require.NoError(t, db.AppendLog("s1", entries))
	require.NoError(t, db.AppendLog("s2", []logbook.Entry{logbook.Dayf(1, logbook.Fluff, "other ship")}))
	require.NoError(t, db.AppendLog("s1", nil))

	got, err := db.RecentLog("s1", 2)
	require.NoError(t, err)
	assert.Equal(t, entries[3:], got)
}

func TestCombatRoundTrip(t *testing.T) {
	db := openTemp(t)
	a, err := engine.FitOut(setup())
	require.NoError(t, err)
	s := setup()
	s.Seed = 4
	b, err := engine.FitOut(s)
	require.NoError(t, err)

	fight := naval.Duel(a, b, 30, entropy.NewSeeded(9))
	id, err := db.SaveCombat(6, fight)
	require.NoError(t, err)

	got, err := db.LoadCombat(id)
	require.NoError(t, err)
	assert.Equal(t, fight, got)

	list, err := db.Combats(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 6, list[0].Day)
	assert.Equal(t, fight.Round, list[0].Rounds)

	_, err = db.LoadCombat(id + 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	_, err := db.GetMeta("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveMeta("k", "v1"))
	require.NoError(t, db.SaveMeta("k", "v2"))
	v, err := db.GetMeta("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestSaveSimulation(t *testing.T) {
	db := openTemp(t)
	assert.False(t, db.HasVoyage())

	s := setup()
	sh, err := engine.FitOut(s)
	require.NoError(t, err)
	start := voyage.Start(sh, s.Distance)
	require.NoError(t, db.AppendLog(sh.ID, start.Log))

	sim := engine.NewSimulation(s, sh, start, s.Funds)
	for day := uint64(1); day <= 4; day++ {
		sim.TickDay(day)
		require.NoError(t, db.SaveSimulation(sim, s.Seed))
	}
	require.True(t, db.HasVoyage())

	saved, err := db.LoadSaved()
	require.NoError(t, err)
	assert.Equal(t, sim.Ship(), saved.Ship)
	assert.Equal(t, sim.Voyage(), saved.Voyage)
	assert.Equal(t, sim.Funds(), saved.Funds)
	assert.Equal(t, int64(3), saved.Seed)
	assert.Equal(t, uint64(4), saved.LastTick)
}
