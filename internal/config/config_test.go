package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, "/api/auth/login", cfg.Backend.LoginPath)
	assert.Equal(t, "/api/auth/validate-token", cfg.Backend.ValidatePath)
	assert.Equal(t, "/api/auth/logout", cfg.Backend.LogoutPath)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.True(t, cfg.DevBackend.SeedUsers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.internal:8080/")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("APP_PORT", "4000")
	t.Setenv("DEV_BACKEND_SEED_USERS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, StorageDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "127.0.0.1:4000", cfg.App.Addr())
	assert.False(t, cfg.DevBackend.SeedUsers)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestBackendTimeout_FallsBackToTenSeconds(t *testing.T) {
	assert.Equal(t, 10*time.Second, BackendConfig{TimeoutSeconds: 0}.Timeout())
	assert.Equal(t, 10*time.Second, BackendConfig{TimeoutSeconds: -5}.Timeout())
}
