package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.SeedDefaultSubjects)
	assert.Equal(t, TimerStoreMemory, cfg.Timer.Store)
	assert.Equal(t, 5, cfg.Stats.TopSubjects)
	assert.True(t, cfg.Exports.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_PREFIX", "v2/")
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("TIMER_STORE", "bogus")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("STATS_TOP_SUBJECTS", "-1")
	t.Setenv("STATS_TIMEZONE", "Asia/Jakarta")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/v2", cfg.APIPrefix)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, TimerStoreMemory, cfg.Timer.Store)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Stats.TopSubjects)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{Stats: StatsConfig{Timezone: "Not/AZone"}}
	loc, err := cfg.Location()
	assert.Error(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Stats.Timezone = "local"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
