package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
model:
  path: /srv/model.json
  timeout: 2s
cache:
  backend: redis
  redis_addr: localhost:6379
  ttl: 1m
rules:
  min_credit_score: 600
`)

	t.Setenv("LOAN_PREDICTOR_LOG_LEVEL", "debug")
	t.Setenv("LOAN_PREDICTOR_MAX_LOAN_TO_ASSET", "0.8")
	t.Setenv("LOAN_PREDICTOR_RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/srv/model.json", cfg.Model.Path)
	assert.Equal(t, 2*time.Second, cfg.Model.Timeout)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 600, cfg.Rules.MinCreditScore)
	assert.Equal(t, 0.8, cfg.Rules.MaxLoanToAsset)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)

	// untouched sections keep their defaults
	assert.Equal(t, 0.2, cfg.Rules.MinIncomeToLoan)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("redis backend without address", func(t *testing.T) {
		path := writeConfig(t, "cache:\n  backend: redis\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RedisAddr")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("LOAN_PREDICTOR_CACHE_TTL", "soon")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOAN_PREDICTOR_CACHE_TTL")
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		t.Setenv("LOAN_PREDICTOR_CACHE_BACKEND", "memcached")
		_, err := Load("")
		require.Error(t, err)
	})
}
