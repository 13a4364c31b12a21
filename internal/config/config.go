// Package config reads host settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/seaworthy/internal/weather"
)

// ErrInvalid marks a setting that parsed but cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config is the seasim and duel configuration. Seed 0 draws a fresh seed.
type Config struct {
	Seed        int64  `env:"SEED"`
	DBPath      string `env:"DB_PATH" envDefault:"data/seaworthy.db"`
	Port        int    `env:"PORT" envDefault:"8080"`
	AdminKey    string `env:"ADMIN_KEY"`
	CatalogPath string `env:"CATALOG"`

	ShipType  string          `env:"SHIP_TYPE" envDefault:"brigantine"`
	ShipName  string          `env:"SHIP_NAME" envDefault:"Restless Gull"`
	CrewLevel int             `env:"CREW_LEVEL" envDefault:"1"`
	Distance  float64         `env:"DISTANCE" envDefault:"1200"`
	Funds     float64         `env:"FUNDS" envDefault:"500"`
	Food      float64         `env:"FOOD" envDefault:"600"`
	Water     float64         `env:"WATER" envDefault:"600"`
	Ammo      int             `env:"AMMUNITION" envDefault:"60"`
	Climate   weather.Climate `env:"CLIMATE" envDefault:"temperate"`

	EnemyType string `env:"ENEMY_TYPE" envDefault:"sloop"`
	EnemyName string `env:"ENEMY_NAME" envDefault:"Black Wake"`
	MaxRounds int    `env:"MAX_ROUNDS" envDefault:"60"`

	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"2s"`
	Speed        float64       `env:"SPEED" envDefault:"1"`
}

// Prefix is prepended to every variable name.
const Prefix = "SEASIM_"

// Load parses the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: Prefix})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engines would clamp silently.
func (c Config) Validate() error {
	switch {
	case c.Distance < 0:
		return fmt.Errorf("%w: distance %.0f is negative", ErrInvalid, c.Distance)
	case c.Speed < 0:
		return fmt.Errorf("%w: speed %.2f is negative", ErrInvalid, c.Speed)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalid)
	case c.CrewLevel < 1:
		return fmt.Errorf("%w: crew level must be at least 1", ErrInvalid)
	}
	switch c.Climate {
	case weather.ClimateTemperate, weather.ClimateTropical, weather.ClimateArctic:
	default:
		return fmt.Errorf("%w: unknown climate %q", ErrInvalid, c.Climate)
	}
	return nil
}
