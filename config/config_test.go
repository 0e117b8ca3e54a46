package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.LoanDays)
	assert.Empty(t, cfg.SeedPath)
	assert.Equal(t, zapcore.InfoLevel, cfg.Log.LogLevel)
}

func TestNewConfigEnvOverridesOptions(t *testing.T) {
	t.Setenv("LIBRARY_LOAN_DAYS", "21")
	t.Setenv("LIBRARY_LOG_LEVEL", "debug")

	cfg, err := NewConfig(WithLoanDays(7), WithSeedPath("seed.db"))
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.LoanDays)
	assert.Equal(t, "seed.db", cfg.SeedPath)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
}

func TestNewConfigRejectsZeroLoanDays(t *testing.T) {
	_, err := NewConfig(WithLoanDays(0))
	require.Error(t, err)
}

func TestNewConfigBadEnv(t *testing.T) {
	t.Setenv("LIBRARY_LOAN_DAYS", "two weeks")
	_, err := NewConfig()
	require.Error(t, err)
}
