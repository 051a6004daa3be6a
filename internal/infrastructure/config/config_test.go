package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no config.toml or .env is picked up
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{
		"BOTTLING_APP_NAME", "BOTTLING_APP_ENV", "BOTTLING_APP_PORT",
		"BOTTLING_DATABASE_DRIVER", "BOTTLING_DATABASE_HOST", "BOTTLING_DATABASE_PORT",
		"BOTTLING_DATABASE_PASSWORD", "BOTTLING_DATABASE_SSLMODE",
		"BOTTLING_DATABASE_MAX_OPEN_CONNS", "BOTTLING_DATABASE_MAX_IDLE_CONNS",
		"BOTTLING_LEDGER_MISSING_MATERIAL_POLICY", "BOTTLING_LEDGER_RAW_SHORTFALL_POLICY",
		"BOTTLING_LEDGER_SALES_SHORTFALL_POLICY", "BOTTLING_LEDGER_IDEMPOTENCY_BACKEND",
		"BOTTLING_LEDGER_IDEMPOTENCY_ENABLED", "BOTTLING_REDIS_ENABLED",
	} {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
			os.Unsetenv(k)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "bottling-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "bottling", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)

		assert.Equal(t, "skip", cfg.Ledger.MissingMaterialPolicy)
		assert.Equal(t, "clamp", cfg.Ledger.RawShortfallPolicy)
		assert.Equal(t, "reject", cfg.Ledger.SalesShortfallPolicy)
		assert.True(t, cfg.Ledger.IdempotencyEnabled)
		assert.Equal(t, 24*time.Hour, cfg.Ledger.IdempotencyTTL)
		assert.Equal(t, "memory", cfg.Ledger.IdempotencyBackend)
		assert.Equal(t, "0 7 * * *", cfg.Scheduler.LowStockCron)
		assert.Empty(t, cfg.Catalog.Units)
		assert.Empty(t, cfg.Catalog.Products)
	})

	t.Run("loads values from environment variables with BOTTLING prefix", func(t *testing.T) {
		isolate(t)
		t.Setenv("BOTTLING_APP_NAME", "plant-a")
		t.Setenv("BOTTLING_APP_PORT", "9000")
		t.Setenv("BOTTLING_DATABASE_DRIVER", "sqlite")
		t.Setenv("BOTTLING_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("BOTTLING_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("BOTTLING_LEDGER_RAW_SHORTFALL_POLICY", "reject")
		t.Setenv("BOTTLING_LEDGER_IDEMPOTENCY_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "plant-a", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "reject", cfg.Ledger.RawShortfallPolicy)
		assert.False(t, cfg.Ledger.IdempotencyEnabled)
	})

	t.Run("reads the catalogue from config.toml", func(t *testing.T) {
		isolate(t)
		toml := `
[[catalog.units]]
item = "2L"
pieces_per_unit = 6
label = "case"

[[catalog.products]]
name = "2L"
materials = ["Plastic Bottle (2L)", "Blue Plastic Cap", "Label"]
`
		require.NoError(t, os.WriteFile(filepath.Join(".", "config.toml"), []byte(toml), 0o600))

		cfg, err := Load()
		require.NoError(t, err)

		require.Len(t, cfg.Catalog.Units, 1)
		assert.Equal(t, UnitConfig{Item: "2L", PiecesPerUnit: 6, Label: "case"}, cfg.Catalog.Units[0])
		require.Len(t, cfg.Catalog.Products, 1)
		assert.Equal(t, "2L", cfg.Catalog.Products[0].Name)
		assert.Equal(t, []string{"Plastic Bottle (2L)", "Blue Plastic Cap", "Label"}, cfg.Catalog.Products[0].Materials)
	})

	t.Run("reads .env without overriding the real environment", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".env", []byte("BOTTLING_APP_PORT=7000\nBOTTLING_APP_NAME=from-dotenv\n"), 0o600))
		t.Setenv("BOTTLING_APP_NAME", "from-env")
		t.Cleanup(func() { os.Unsetenv("BOTTLING_APP_PORT") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "7000", cfg.App.Port)
		assert.Equal(t, "from-env", cfg.App.Name)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "MaxIdleConns cannot exceed MaxOpenConns",
			env:     map[string]string{"BOTTLING_DATABASE_MAX_OPEN_CONNS": "10", "BOTTLING_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "MaxIdleConns cannot be negative",
			env:     map[string]string{"BOTTLING_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"BOTTLING_DATABASE_DRIVER": "mysql"},
			wantErr: "database.driver",
		},
		{
			name:    "unknown missing material policy",
			env:     map[string]string{"BOTTLING_LEDGER_MISSING_MATERIAL_POLICY": "ignore"},
			wantErr: "missing_material_policy",
		},
		{
			name:    "unknown shortfall policy",
			env:     map[string]string{"BOTTLING_LEDGER_SALES_SHORTFALL_POLICY": "partial"},
			wantErr: "sales_shortfall_policy",
		},
		{
			name:    "redis idempotency without redis",
			env:     map[string]string{"BOTTLING_LEDGER_IDEMPOTENCY_BACKEND": "redis"},
			wantErr: "requires redis.enabled",
		},
		{
			name:    "database password required in production",
			env:     map[string]string{"BOTTLING_APP_ENV": "production", "BOTTLING_DATABASE_SSLMODE": "require"},
			wantErr: "database.password is required in production",
		},
		{
			name: "SSL required in production",
			env: map[string]string{
				"BOTTLING_APP_ENV":           "production",
				"BOTTLING_DATABASE_PASSWORD": "secret",
				"BOTTLING_DATABASE_SSLMODE":  "disable",
			},
			wantErr: "sslmode cannot be 'disable'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("sqlite in production needs no password", func(t *testing.T) {
		isolate(t)
		t.Setenv("BOTTLING_APP_ENV", "production")
		t.Setenv("BOTTLING_DATABASE_DRIVER", "sqlite")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid postgres DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("sqlite DSN is the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}
		assert.Equal(t, ":memory:", cfg.DSN())
	})

	t.Run("redis address", func(t *testing.T) {
		assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
	})
}
