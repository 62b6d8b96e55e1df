package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 0.65, cfg.Retrieval.VectorThreshold)
	assert.Equal(t, 2, cfg.Retrieval.MinUsefulResults)
	assert.Equal(t, 3, cfg.Strategy.SufficiencyThreshold)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "knowledge-augment", cfg.Observability.ServiceName)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	data := `
server:
  port: 9000
retrieval:
  min_useful_results: 4
observability:
  log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Retrieval.MinUsefulResults)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	// Untouched fields keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 0.65, cfg.Retrieval.VectorThreshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	data := `
server:
  port: 9000
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("KA_SERVER_PORT", "7777")
	t.Setenv("KA_LOG_LEVEL", "warn")
	t.Setenv("KA_EMBEDDING_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
}

func TestLoad_RedisAddrSwitchesDriver(t *testing.T) {
	t.Setenv("KA_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidPortIgnored(t *testing.T) {
	t.Setenv("KA_SERVER_PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}
