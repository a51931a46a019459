package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fintrack-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "fintrack", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "", cfg.Redis.Addr())
		assert.Equal(t, 3, cfg.Scheduler.ReminderLookaheadDays)
		assert.Equal(t, "0 1 * * *", cfg.Scheduler.RenewalSchedule)
		assert.Equal(t, "USD", cfg.Currency.BaseCurrency)
		assert.Equal(t, time.Hour, cfg.Currency.RateCacheTTL)
		assert.False(t, cfg.Storage.Enabled())
		assert.False(t, cfg.PDF.Enabled)
		assert.Equal(t, "A4", cfg.PDF.PaperSize)
		assert.Equal(t, 30*time.Second, cfg.PDF.Timeout)
	})

	t.Run("loads values from environment variables with FINTRACK prefix", func(t *testing.T) {
		t.Setenv("FINTRACK_APP_PORT", "9000")
		t.Setenv("FINTRACK_DATABASE_DRIVER", "sqlite")
		t.Setenv("FINTRACK_DATABASE_SQLITE_PATH", ":memory:")
		t.Setenv("FINTRACK_REDIS_HOST", "cache.local")
		t.Setenv("FINTRACK_SCHEDULER_REMINDER_LOOKAHEAD_DAYS", "5")
		t.Setenv("FINTRACK_CURRENCY_BASE_CURRENCY", "EUR")
		t.Setenv("FINTRACK_STORAGE_BUCKET", "exports")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.Equal(t, 5, cfg.Scheduler.ReminderLookaheadDays)
		assert.Equal(t, "EUR", cfg.Currency.BaseCurrency)
		assert.True(t, cfg.Storage.Enabled())
	})

	t.Run("rejects unknown paper size", func(t *testing.T) {
		t.Setenv("FINTRACK_PDF_PAPER_SIZE", "A3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdf.paper_size")
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("FINTRACK_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("FINTRACK_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FINTRACK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects reminder lookahead above 30 days", func(t *testing.T) {
		t.Setenv("FINTRACK_SCHEDULER_REMINDER_LOOKAHEAD_DAYS", "45")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reminder_lookahead_days")
	})
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("FINTRACK_PDF_PAPER_SIZE", "A5")
	t.Setenv("FINTRACK_CURRENCY_BASE_CURRENCY", "EURO")
	t.Setenv("FINTRACK_TELEMETRY_SAMPLING_RATIO", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf.paper_size")
	assert.Contains(t, err.Error(), "currency.base_currency")
	assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
}

func TestLoad_DurationsFromEnv(t *testing.T) {
	t.Setenv("FINTRACK_JWT_ACCESS_TOKEN_EXPIRATION", "5m")
	t.Setenv("FINTRACK_HTTP_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FINTRACK_APP_ENV", "production")
		t.Setenv("FINTRACK_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("FINTRACK_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FINTRACK_DATABASE_SSLMODE", "require")
		t.Setenv("FINTRACK_SWAGGER_ENABLED", "false")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires long jwt.secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINTRACK_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINTRACK_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required")
	})

	t.Run("sqlite skips postgres checks", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINTRACK_DATABASE_DRIVER", "sqlite")
		t.Setenv("FINTRACK_DATABASE_PASSWORD", "")
		t.Setenv("FINTRACK_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.NoError(t, err)
	})

	t.Run("fails if swagger enabled without protection", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINTRACK_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "fintrack", SSLMode: "disable"}

		dsn := cfg.DSN()
		assert.Equal(t, "postgres://u:p@localhost:5432/fintrack?sslmode=disable", dsn)
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
