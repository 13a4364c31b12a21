// Package persistence provides SQLite-backed voyage storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/logbook"
	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/voyage"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Meta keys written by SaveSimulation.
const (
	MetaShipID   = "ship_id"
	MetaFunds    = "funds"
	MetaLastTick = "last_tick"
	MetaSeed     = "seed"
)

// DB wraps a SQLite connection for voyage persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ships (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		hull INTEGER NOT NULL,
		max_hull INTEGER NOT NULL,
		crew INTEGER NOT NULL,
		sunk INTEGER NOT NULL,
		ship_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS voyages (
		ship_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		rationing TEXT NOT NULL,
		days_at_sea INTEGER NOT NULL,
		distance_traveled REAL NOT NULL,
		distance_to_destination REAL NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS log_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ship_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		round INTEGER NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS combats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		winner TEXT NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_log_ship ON log_entries(ship_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveShip writes a ship, replacing any previous row with the same id.
func (db *DB) SaveShip(s ship.Ship) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode ship %s: %w", s.ID, err)
	}
	sunk := 0
	if s.Sunk() {
		sunk = 1
	}
	_, err = db.conn.Exec(`INSERT OR REPLACE INTO ships
		(id, name, type, hull, max_hull, crew, sunk, ship_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, string(s.Type), s.Stats.HullPoints, s.Stats.MaxHullPoints,
		s.Crew.Count(), sunk, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert ship %s: %w", s.ID, err)
	}
	return nil
}

// LoadShip reads a ship by id.
func (db *DB) LoadShip(id string) (ship.Ship, error) {
	var data string
	if err := db.conn.Get(&data, "SELECT ship_json FROM ships WHERE id = ?", id); err != nil {
		return ship.Ship{}, notFound("ship "+id, err)
	}
	var s ship.Ship
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return ship.Ship{}, fmt.Errorf("decode ship %s: %w", id, err)
	}
	return s, nil
}

// SaveVoyage writes a voyage without its log; the log lives in
// log_entries and is appended with AppendLog.
func (db *DB) SaveVoyage(st voyage.State) error {
	bare := st
	bare.Log = nil
	data, err := json.Marshal(bare)
	if err != nil {
		return fmt.Errorf("encode voyage %s: %w", st.ShipID, err)
	}
	_, err = db.conn.Exec(`INSERT OR REPLACE INTO voyages
		(ship_id, status, rationing, days_at_sea, distance_traveled, distance_to_destination, state_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.ShipID, string(st.Status), string(st.Rationing), st.DaysAtSea,
		st.DistanceTraveled, st.DistanceToDestination, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert voyage %s: %w", st.ShipID, err)
	}
	return nil
}

// LoadVoyage reads a voyage and reattaches its full log.
func (db *DB) LoadVoyage(shipID string) (voyage.State, error) {
	var data string
	if err := db.conn.Get(&data, "SELECT state_json FROM voyages WHERE ship_id = ?", shipID); err != nil {
		return voyage.State{}, notFound("voyage "+shipID, err)
	}
	var st voyage.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return voyage.State{}, fmt.Errorf("decode voyage %s: %w", shipID, err)
	}
	if err := db.conn.Select(&st.Log,
		"SELECT day, round, type, message FROM log_entries WHERE ship_id = ? ORDER BY id",
		shipID,
	); err != nil {
		return voyage.State{}, fmt.Errorf("load log %s: %w", shipID, err)
	}
	return st, nil
}

// AppendLog appends entries to a ship's log.
func (db *DB) AppendLog(shipID string, entries []logbook.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO log_entries
		(ship_id, day, round, type, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(shipID, e.Day, e.Round, string(e.Type), e.Message); err != nil {
			return fmt.Errorf("insert log entry: %w", err)
		}
	}

	return tx.Commit()
}

// RecentLog returns the most recent limit entries for a ship, oldest first.
func (db *DB) RecentLog(shipID string, limit int) ([]logbook.Entry, error) {
	var entries []logbook.Entry
	err := db.conn.Select(&entries,
		`SELECT day, round, type, message FROM (
			SELECT id, day, round, type, message FROM log_entries
			WHERE ship_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`,
		shipID, limit,
	)
	return entries, err
}

// CombatSummary is a combats row without the full state.
type CombatSummary struct {
	ID     int64  `db:"id" json:"id"`
	Day    int    `db:"day" json:"day"`
	Rounds int    `db:"rounds" json:"rounds"`
	Winner string `db:"winner" json:"winner"`
}

// SaveCombat stores a finished engagement and returns its id.
func (db *DB) SaveCombat(day int, st naval.State) (int64, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return 0, fmt.Errorf("encode combat: %w", err)
	}
	winner := ""
	if id, ok := st.Winner(); ok {
		winner = st.Ships[id].Ship.Name
	}
	res, err := db.conn.Exec(
		"INSERT INTO combats (day, rounds, winner, state_json) VALUES (?, ?, ?, ?)",
		day, st.Round, winner, string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("insert combat: %w", err)
	}
	return res.LastInsertId()
}

// LoadCombat reads an engagement by id.
func (db *DB) LoadCombat(id int64) (naval.State, error) {
	var data string
	if err := db.conn.Get(&data, "SELECT state_json FROM combats WHERE id = ?", id); err != nil {
		return naval.State{}, notFound(fmt.Sprintf("combat %d", id), err)
	}
	var st naval.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return naval.State{}, fmt.Errorf("decode combat %d: %w", id, err)
	}
	return st, nil
}

// Combats lists engagements, newest first.
func (db *DB) Combats(limit int) ([]CombatSummary, error) {
	var out []CombatSummary
	err := db.conn.Select(&out,
		"SELECT id, day, rounds, winner FROM combats ORDER BY id DESC LIMIT ?", limit)
	return out, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key); err != nil {
		return "", notFound("meta "+key, err)
	}
	return value, nil
}

// HasVoyage reports whether a saved voyage exists to resume.
func (db *DB) HasVoyage() bool {
	id, err := db.GetMeta(MetaShipID)
	if err != nil {
		return false
	}
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM voyages WHERE ship_id = ?", id); err != nil {
		return false
	}
	return n > 0
}

// Saved is a voyage restored from disk.
type Saved struct {
	Ship     ship.Ship
	Voyage   voyage.State
	Funds    float64
	Seed     int64
	LastTick uint64
}

// LoadSaved restores the voyage recorded in meta.
func (db *DB) LoadSaved() (Saved, error) {
	id, err := db.GetMeta(MetaShipID)
	if err != nil {
		return Saved{}, err
	}
	var out Saved
	if out.Ship, err = db.LoadShip(id); err != nil {
		return Saved{}, err
	}
	if out.Voyage, err = db.LoadVoyage(id); err != nil {
		return Saved{}, err
	}
	if v, err := db.GetMeta(MetaFunds); err == nil {
		out.Funds, _ = strconv.ParseFloat(v, 64)
	}
	if v, err := db.GetMeta(MetaSeed); err == nil {
		out.Seed, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := db.GetMeta(MetaLastTick); err == nil {
		out.LastTick, _ = strconv.ParseUint(v, 10, 64)
	}
	return out, nil
}

// SaveSimulation writes the ship, voyage, new log entries, new
// engagements and metadata.
func (db *DB) SaveSimulation(sim *engine.Simulation, seed int64) error {
	sh := sim.Ship()
	st := sim.Voyage()
	slog.Info("saving voyage", "ship", sh.Name, "day", st.DaysAtSea)

	if err := db.SaveShip(sh); err != nil {
		return fmt.Errorf("save ship: %w", err)
	}
	if err := db.SaveVoyage(st); err != nil {
		return fmt.Errorf("save voyage: %w", err)
	}
	if err := db.AppendLog(sh.ID, sim.DrainLog()); err != nil {
		return fmt.Errorf("save log: %w", err)
	}
	for _, b := range sim.DrainBattles() {
		if _, err := db.SaveCombat(st.DaysAtSea, b); err != nil {
			return fmt.Errorf("save combat: %w", err)
		}
	}

	meta := map[string]string{
		MetaShipID:   sh.ID,
		MetaFunds:    strconv.FormatFloat(sim.Funds(), 'f', -1, 64),
		MetaSeed:     strconv.FormatInt(seed, 10),
		MetaLastTick: strconv.FormatUint(sim.CurrentTick(), 10),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}

	slog.Info("voyage saved")
	return nil
}

func notFound(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
