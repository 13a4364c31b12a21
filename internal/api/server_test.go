package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seaworthy/internal/catalog"
	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/persistence"
	"github.com/talgya/seaworthy/internal/voyage"
	"github.com/talgya/seaworthy/internal/weather"
)

func newServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	s := engine.Setup{
		Seed: 21, Climate: weather.ClimateTemperate, Catalog: catalog.Default(),
		ShipType: "sloop", ShipName: "Kestrel", CrewLevel: 1,
		Distance: 800, Funds: 100, Food: 200, Water: 200, Ammunition: 20,
		EnemyType: "sloop", EnemyName: "Marauder",
	}
	sh, err := engine.FitOut(s)
	require.NoError(t, err)
	sim := engine.NewSimulation(s, sh, voyage.Start(sh, s.Distance), s.Funds)
	sim.TickDay(1)
	sim.TickDay(2)

	srv := &Server{Sim: sim, Eng: engine.NewEngine(), Maneuvers: s.Catalog.Maneuvers, Seed: s.Seed, AdminKey: "secret"}
	if withDB {
		db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		srv.DB = db
	}
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	h := newServer(t, false).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Tick   uint64        `json:"tick"`
		Speed  float64       `json:"speed"`
		Voyage engine.Report `json:"voyage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(2), body.Tick)
	assert.Equal(t, 1.0, body.Speed)
	assert.Equal(t, "Kestrel", body.Voyage.Ship)
	assert.Equal(t, 2, body.Voyage.Day)
}

func TestShipAndVoyage(t *testing.T) {
	h := newServer(t, false).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/ship", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name": "Kestrel"`)

	rec = do(t, h, http.MethodGet, "/api/v1/voyage", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st voyage.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 2, st.DaysAtSea)
	assert.Empty(t, st.Log)
}

func TestLogLimit(t *testing.T) {
	h := newServer(t, false).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/log?limit=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []logbook.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Day)
}

func TestManeuvers(t *testing.T) {
	h := newServer(t, false).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/maneuvers", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	assert.Equal(t, "broadside", list[0].ID)
}

func TestSpeedRequiresAdmin(t *testing.T) {
	srv := newServer(t, false)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/speed", `{"speed": 5}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/speed", `{"speed": 5}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/speed", `{"speed": 5}`, "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5.0, srv.Eng.Speed())

	rec = do(t, h, http.MethodPost, "/api/v1/speed", `{"speed": 5000}`, "secret")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/speed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"speed": 5`)

	srv.AdminKey = ""
	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/speed", `{"speed": 1}`, "secret")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRationing(t *testing.T) {
	srv := newServer(t, false)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/rationing", `{"level": "feast"}`, "secret")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/rationing", `{"level": "half"}`, "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, voyage.RationHalf, srv.Sim.Voyage().Rationing)
}

func TestCombatsAndSnapshot(t *testing.T) {
	noDB := newServer(t, false).Handler()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, noDB, http.MethodGet, "/api/v1/combats", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, noDB, http.MethodPost, "/api/v1/snapshot", "", "secret").Code)

	srv := newServer(t, true)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/snapshot", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/snapshot", "", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.DB.HasVoyage())

	rec = do(t, h, http.MethodGet, "/api/v1/combats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/combat/abc", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/combat/99", "", "").Code)
}

func TestCORS(t *testing.T) {
	h := newServer(t, false).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 61, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(5 * time.Minute)
	rl.Allow("c")
	assert.NotContains(t, rl.buckets, "b")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rl.buckets, "10.0.0.1")
}
