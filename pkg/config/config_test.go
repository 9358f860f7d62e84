package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hvqdigital/agenda-console/backend/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults when the environment is empty", func(t *testing.T) {
		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, "http://localhost:3001", cfg.HospitalAPI.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.HospitalAPI.Timeout)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.OTEL.Enabled)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("HOSPITAL_API_URL", "https://api.hospital.example")
		t.Setenv("HOSPITAL_API_TIMEOUT_SECONDS", "30")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_PORT", "6380")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Environment)
		assert.Equal(t, "https://api.hospital.example", cfg.HospitalAPI.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.HospitalAPI.Timeout)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
	})

	t.Run("falls back on unparseable numbers", func(t *testing.T) {
		t.Setenv("HOSPITAL_API_TIMEOUT_SECONDS", "soon")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.HospitalAPI.Timeout)
	})
}
