package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:       "8460",
		JWTSecret:  "a-perfectly-reasonable-development-secret",
		DBPassword: "password",
		Env:        "development",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("port required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("jwt secret required", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		require.Error(t, cfg.Validate())
	})
}

func TestValidateProduction(t *testing.T) {
	t.Parallel()

	productionConfig := func() *Config {
		return &Config{
			Port:       "8460",
			JWTSecret:  "0123456789abcdef0123456789abcdef-production",
			DBPassword: "genuinely-strong-password",
			DBSSLMode:  "require",
			Env:        "production",
		}
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, productionConfig().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		cfg := productionConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		require.Error(t, cfg.Validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		cfg := productionConfig()
		cfg.JWTSecret = "too-short"
		require.Error(t, cfg.Validate())
	})

	t.Run("default db password rejected", func(t *testing.T) {
		cfg := productionConfig()
		cfg.DBPassword = "password"
		require.Error(t, cfg.Validate())

		cfg.DBPassword = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("prod alias enforces the same rules", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Env = "prod"
		cfg.JWTSecret = "short"
		require.Error(t, cfg.Validate())
	})
}
