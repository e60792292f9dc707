package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_ENCODING",
		"ORDIX_POOL_SIZE", "ORDIX_BONUS_EVERY", "ORDIX_ORDER_RULE",
		"STORAGE_DRIVER", "SQLITE_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"LEADERBOARD_DRIVER", "DATABASE_URL", "FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS_PATH",
		"SESSION_TTL",
	} {
		// Setenv restores the original value on cleanup; envconfig treats a
		// set-but-empty variable as present, so unset it.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, 7, cfg.BonusEvery)
	assert.Equal(t, "placement", cfg.OrderRule)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "ordix.db", cfg.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "memory", cfg.LeaderboardDriver)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("ORDIX_POOL_SIZE", "30")
	t.Setenv("ORDIX_ORDER_RULE", "slot")
	t.Setenv("LEADERBOARD_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ordix")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 30, cfg.PoolSize)
	assert.Equal(t, "slot", cfg.OrderRule)
	assert.Equal(t, "postgres", cfg.LeaderboardDriver)
	assert.Equal(t, "postgres://localhost/ordix", cfg.DatabaseURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
}

func TestLoad_InvalidPoolSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORDIX_POOL_SIZE", "abc")

	_, err := Load()
	assert.Error(t, err)
}
