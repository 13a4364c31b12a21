// Command duel fits out two ships and fights them to a finish on autopilot,
// printing the combat log.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/talgya/seaworthy/internal/catalog"
	"github.com/talgya/seaworthy/internal/config"
	"github.com/talgya/seaworthy/internal/engine"
	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/naval"
	"github.com/talgya/seaworthy/internal/ship"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
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

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = entropy.NewSeed(); err != nil {
			slog.Error("failed to draw seed", "error", err)
			os.Exit(1)
		}
	}

	base := engine.Setup{
		Seed:       seed,
		Catalog:    cat,
		CrewLevel:  cfg.CrewLevel,
		Ammunition: cfg.Ammo,
	}
	ours := base
	ours.ShipType, ours.ShipName = ship.Type(cfg.ShipType), cfg.ShipName
	theirs := base
	theirs.Seed = seed + 1
	theirs.ShipType, theirs.ShipName = ship.Type(cfg.EnemyType), cfg.EnemyName

	a, err := engine.FitOut(ours)
	if err != nil {
		slog.Error("failed to fit out", "ship", cfg.ShipName, "error", err)
		os.Exit(1)
	}
	b, err := engine.FitOut(theirs)
	if err != nil {
		slog.Error("failed to fit out", "ship", cfg.EnemyName, "error", err)
		os.Exit(1)
	}
	slog.Info("duel", "seed", seed, "a", a.Type, "b", b.Type)

	eng := naval.NewEngine(cat.Maneuvers)
	st := eng.Duel(a, b, cfg.MaxRounds, entropy.Derive(seed, "duel"))

	for _, e := range st.Log {
		fmt.Println(e)
	}
	fmt.Println()
	for _, id := range st.Order {
		c := st.Ships[id]
		fmt.Printf("%-16s hull %s/%s  crew %s  shot %s\n",
			c.Ship.Name,
			humanize.Comma(int64(c.CurrentHullPoints)), humanize.Comma(int64(c.MaxHullPoints)),
			humanize.Comma(int64(c.CurrentCrew)), humanize.Comma(int64(c.Ammunition)))
	}
	fmt.Printf("Fought over %s.\n", english.Plural(st.Round, "round", "rounds"))
}
