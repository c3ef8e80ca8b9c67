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
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, LocationStorePrimary, cfg.Store.LocationStore)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 83.0, cfg.Navigation.WalkingSpeedMetersPerMinute)
	assert.Equal(t, time.Duration(0), cfg.Location.TTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.False(t, cfg.Auth.ProtectCatalogWrites)
	assert.False(t, cfg.Auth.ProtectLocationWrites)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("LOCATION_STORE", "redis")
	t.Setenv("LOCATION_TTL", "15m")
	t.Setenv("WALKING_SPEED_MPM", "84")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("PROTECT_LOCATION_WRITES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, LocationStoreRedis, cfg.Store.LocationStore)
	assert.Equal(t, 15*time.Minute, cfg.Location.TTL)
	assert.Equal(t, 84.0, cfg.Navigation.WalkingSpeedMetersPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Auth.ProtectLocationWrites)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
