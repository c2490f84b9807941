package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "lpx")
	t.Setenv("DB_NAME", "lpx_api")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.InDelta(t, 0.10, cfg.Commission.Rate, 1e-9)
	assert.Equal(t, time.Minute, cfg.Worker.MetricsInterval)
	assert.Equal(t, 5*time.Minute, cfg.Worker.PayoutInterval)
	assert.Equal(t, "https://api.lpxpay.com/v1", cfg.LPXPay.BaseURL)
}

func TestLoadCommissionRate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMMISSION_RATE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cfg.Commission.Rate, 1e-9)
}

func TestLoadCommissionRateOutOfRange(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("COMMISSION_RATE", "1.0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("COMMISSION_RATE", "-0.1")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadCommissionRateMalformed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMMISSION_RATE", "ten percent")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingJWTSecret(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "lpx")
	t.Setenv("DB_NAME", "lpx_api")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadWorkerIntervals(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("METRICS_SYNC_INTERVAL", "30s")
	t.Setenv("PAYOUT_INTERVAL", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Worker.MetricsInterval)
	assert.Equal(t, 2*time.Minute, cfg.Worker.PayoutInterval)
}

func TestLoadBadWorkerInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("METRICS_SYNC_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
