package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_USER", "memo")
	t.Setenv("DB_DATABASE", "memo_app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.CORSAllowedOrigins)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.False(t, cfg.UseRedisSessions())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_USER", "memo")
	t.Setenv("DB_DATABASE", "memo_app")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_STORE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 15432, cfg.DBPort)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.UseRedisSessions())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_DATABASE", "memo_app")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_USER")
}

func TestValidateSessionStore(t *testing.T) {
	t.Setenv("DB_USER", "memo")
	t.Setenv("DB_DATABASE", "memo_app")
	t.Setenv("SESSION_STORE", "memcached")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_STORE")
}

func TestValidateReleaseMode(t *testing.T) {
	t.Setenv("DB_USER", "memo")
	t.Setenv("DB_DATABASE", "memo_app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("GIN_MODE", "release")

	// 既定の秘密鍵のままでは本番起動できない
	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.GinMode)
}
