package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.UserID)
		assert.Equal(t, 7, cfg.MaxLookaheadDays)
		assert.Equal(t, 30, cfg.MaxDisplacementDays)
		assert.Empty(t, cfg.RedisURL)
		assert.Empty(t, cfg.RabbitMQURL)
		assert.True(t, cfg.IsDevelopment())
		assert.False(t, cfg.IsProduction())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("TEMPO_DB_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "postgres://localhost/tempo")
		t.Setenv("TEMPO_LOOKAHEAD_DAYS", "14")

		cfg, err := Load()

		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "postgres", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://localhost/tempo", cfg.DatabaseURL)
		assert.Equal(t, 14, cfg.MaxLookaheadDays)
	})

	t.Run("invalid int falls back", func(t *testing.T) {
		t.Setenv("TEMPO_LOOKAHEAD_DAYS", "soon")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxLookaheadDays)
	})
}
