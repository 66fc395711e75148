package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "stockkeeper.db", cfg.Database.DSN)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Inventory.DefaultCriticalLevel)
	assert.Equal(t, 5*time.Second, cfg.Inventory.TxTimeout)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Local, cfg.Inventory.Location)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "stockkeeper", cfg.Telemetry.ServiceName)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockkeeper.yaml")
	content := `
database:
  driver: Postgres
  dsn: postgres://localhost/stock
log:
  level: debug
inventory:
  defaultCriticalLevel: 3
  timezone: UTC
report:
  directory: out
retry:
  maxAttempts: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/stock", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Inventory.DefaultCriticalLevel)
	assert.Equal(t, time.UTC, cfg.Inventory.Location)
	assert.Equal(t, "out", cfg.Report.Directory)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("STOCKKEEPER_DATABASE_DSN", "/tmp/env.db")
	t.Setenv("STOCKKEEPER_LOG_LEVEL", "warn")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"bad duration", "database.connMaxLifetime", "forever"},
		{"bad timezone", "inventory.timezone", "Mars/Olympus"},
		{"negative critical level", "inventory.defaultCriticalLevel", -1},
		{"no attempts", "retry.maxAttempts", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViper()
			v.Set(tt.key, tt.val)

			_, err := Load(v, "")
			assert.Error(t, err)
		})
	}
}
