package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seaworthy/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/seaworthy.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1200.0, cfg.Distance)
	assert.Equal(t, weather.ClimateTemperate, cfg.Climate)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Zero(t, cfg.Seed)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SEASIM_SEED", "7")
	t.Setenv("SEASIM_SHIP_TYPE", "galleon")
	t.Setenv("SEASIM_CLIMATE", "arctic")
	t.Setenv("SEASIM_TICK_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "galleon", cfg.ShipType)
	assert.Equal(t, weather.ClimateArctic, cfg.Climate)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
}

func TestLoadErrors(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		t.Setenv("SEASIM_PORT", "not-an-int")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
	t.Run("climate", func(t *testing.T) {
		t.Setenv("SEASIM_CLIMATE", "lunar")
		_, err := Load()
		require.ErrorIs(t, err, ErrInvalid)
	})
	t.Run("distance", func(t *testing.T) {
		t.Setenv("SEASIM_DISTANCE", "-5")
		_, err := Load()
		require.ErrorIs(t, err, ErrInvalid)
	})
}
