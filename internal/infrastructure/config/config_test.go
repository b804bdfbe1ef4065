package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 5, cfg.Ranking.SuggestLimit)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:petchef.db")
	t.Setenv("APP_RANKING_SUGGEST_LIMIT", "3")
	t.Setenv("APP_CACHE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:petchef.db", cfg.Store.DSN)
	assert.Equal(t, 3, cfg.Ranking.SuggestLimit)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown store driver", func(t *testing.T) {
		t.Setenv("APP_STORE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unknown store driver")
	})

	t.Run("sql driver without dsn", func(t *testing.T) {
		t.Setenv("APP_STORE_DRIVER", "postgres")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "dsn is required")
	})

	t.Run("zero suggest limit", func(t *testing.T) {
		t.Setenv("APP_RANKING_SUGGEST_LIMIT", "0")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "suggest limit")
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petchef.yaml")
	content := `
server:
  port: 7000
store:
  driver: sqlite
  dsn: /tmp/petchef.db
  seed: false
events:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  topic: pantry
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.False(t, cfg.Store.Seed)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "pantry", cfg.Events.Topic)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
}
