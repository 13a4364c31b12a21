// Command seasim sails a voyage in real time, saving each day to SQLite and
// serving the ship's progress over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/talgya/seaworthy/internal/api"
	"github.com/talgya/seaworthy/internal/catalog"
	"github.com/talgya/seaworthy/internal/config"
	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/persistence"
	"github.com/talgya/seaworthy/internal/ship"
	"github.com/talgya/seaworthy/internal/voyage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		"ships", len(cat.Templates),
		"maneuvers", len(cat.Maneuvers),
		"events", len(cat.Events),
	)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	setup := engine.Setup{
		Seed:       cfg.Seed,
		Climate:    cfg.Climate,
		Catalog:    cat,
		ShipType:   ship.Type(cfg.ShipType),
		ShipName:   cfg.ShipName,
		CrewLevel:  cfg.CrewLevel,
		Distance:   cfg.Distance,
		Funds:      cfg.Funds,
		Food:       cfg.Food,
		Water:      cfg.Water,
		Ammunition: cfg.Ammo,
		EnemyType:  ship.Type(cfg.EnemyType),
		EnemyName:  cfg.EnemyName,
		MaxRounds:  cfg.MaxRounds,
	}

	// ── Load or Fit Out ───────────────────────────────────────────────
	var (
		sh        ship.Ship
		st        voyage.State
		funds     float64
		startTick uint64
	)
	if db.HasVoyage() {
		slog.Info("found saved voyage, loading...")
		saved, err := db.LoadSaved()
		if err != nil {
			slog.Error("failed to load voyage", "error", err)
			os.Exit(1)
		}
		sh, st, funds, startTick = saved.Ship, saved.Voyage, saved.Funds, saved.LastTick
		if saved.Seed != 0 {
			setup.Seed = saved.Seed
		}
		slog.Info("voyage restored", "ship", sh.Name, "summary", st.Summary(), "tick", startTick)
	} else {
		if setup.Seed == 0 {
			if setup.Seed, err = entropy.NewSeed(); err != nil {
				slog.Error("failed to draw seed", "error", err)
				os.Exit(1)
			}
		}
		slog.Info("no saved voyage, fitting out...", "seed", setup.Seed)
		sh, err = engine.FitOut(setup)
		if err != nil {
			slog.Error("failed to fit out", "error", err)
			os.Exit(1)
		}
		st = voyage.Start(sh, setup.Distance)
		funds = setup.Funds
		if err := db.AppendLog(sh.ID, st.Log); err != nil {
			slog.Error("failed to write log", "error", err)
			os.Exit(1)
		}
		slog.Info("ship fitted out",
			"ship", sh.Name,
			"type", sh.Type,
			"crew", sh.Crew.Count(),
			"quality", sh.Crew.Quality,
			"food", sh.Cargo.Supplies.Food,
			"water", sh.Cargo.Supplies.Water,
		)
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(setup, sh, st, funds)
	if startTick == 0 {
		if err := db.SaveSimulation(sim, setup.Seed); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := engine.NewEngine()
	eng.Day = startTick
	eng.Interval = cfg.TickInterval
	eng.SetSpeed(cfg.Speed)

	// Save every day; stop once the voyage ends.
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := db.SaveSimulation(sim, setup.Seed); err != nil {
			slog.Error("daily save failed", "error", err)
		}
		if sim.Done() {
			eng.Stop()
		}
	}
	eng.OnWeek = func(tick uint64) {
		r := sim.Report()
		slog.Info("weekly summary",
			"time", engine.SeaTime(uint64(r.Day)),
			"sailed", humanize.Comma(int64(r.DistanceTraveled)),
			"to_go", humanize.Comma(int64(r.DistanceToDestination)),
			"engagements", r.Stats.Engagements,
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("SEASIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Sim:       sim,
		Eng:       eng,
		DB:        db,
		Maneuvers: cat.Maneuvers,
		Seed:      setup.Seed,
		Port:      cfg.Port,
		AdminKey:  cfg.AdminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nThe %s is under way: %s hands, %s miles to go.\n",
		sh.Name, humanize.Comma(int64(sh.Crew.Count())), humanize.Comma(int64(st.DistanceToDestination)))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	if startTick > 0 {
		fmt.Printf("Resuming at %s\n", engine.SeaTime(uint64(st.DaysAtSea)))
	}
	fmt.Println("Sailing... (Ctrl+C to stop)")

	if !sim.Done() {
		eng.Run()
	}

	slog.Info("final save...")
	if err := db.SaveSimulation(sim, setup.Seed); err != nil {
		slog.Error("final save failed", "error", err)
	}

	r := sim.Report()
	fmt.Printf("%s after %s: %s\n", r.Ship, english.Plural(r.Day, "day", "days"), sim.Voyage().Summary())
}
