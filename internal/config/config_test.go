package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "seatspot")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "seatspot")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*time.Minute, cfg.Reservation.PendingTimeout)
	assert.Equal(t, time.Minute, cfg.Reservation.SweepInterval)
	assert.Equal(t, 10, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestNew_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PENDING_TIMEOUT_MIN", "15")
	t.Setenv("SWEEP_INTERVAL_SEC", "5")
	t.Setenv("REDIS_DB", "3")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Reservation.PendingTimeout)
	assert.Equal(t, 5*time.Second, cfg.Reservation.SweepInterval)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestNew_MissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "seatspot")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestNew_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := New()
	require.Error(t, err)
}
