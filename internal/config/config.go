package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "STOCKKEEPER"

type Config struct {
	Database  DatabaseConfig
	Log       LogConfig
	Inventory InventoryConfig
	Telemetry TelemetryConfig
	Report    ReportConfig
	Retry     RetryConfig
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type InventoryConfig struct {
	DefaultCriticalLevel int
	TxTimeout            time.Duration
	Location             *time.Location
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

type ReportConfig struct {
	Directory string
}

// RetryConfig is how often a command reruns a write that lost a lock
// conflict. One attempt means no retry.
type RetryConfig struct {
	MaxAttempts int
}

// NewViper returns a viper instance with defaults and environment binding.
// STOCKKEEPER_DATABASE_DSN overrides database.dsn and so on.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "stockkeeper.db")
	v.SetDefault("database.maxOpenConns", 1)
	v.SetDefault("database.maxIdleConns", 1)
	v.SetDefault("database.connMaxLifetime", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("inventory.defaultCriticalLevel", 10)
	v.SetDefault("inventory.txTimeout", "5s")
	v.SetDefault("inventory.timezone", "Local")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.serviceName", "stockkeeper")
	v.SetDefault("report.directory", ".")
	v.SetDefault("retry.maxAttempts", 1)

	return v
}

// Load reads an optional config file and resolves the final configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("database.connMaxLifetime"))
	if err != nil {
		return nil, fmt.Errorf("parsing database.connMaxLifetime: %w", err)
	}

	txTimeout, err := time.ParseDuration(v.GetString("inventory.txTimeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing inventory.txTimeout: %w", err)
	}

	loc, err := time.LoadLocation(v.GetString("inventory.timezone"))
	if err != nil {
		return nil, fmt.Errorf("loading inventory.timezone: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			DSN:             v.GetString("database.dsn"),
			MaxOpenConns:    v.GetInt("database.maxOpenConns"),
			MaxIdleConns:    v.GetInt("database.maxIdleConns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Inventory: InventoryConfig{
			DefaultCriticalLevel: v.GetInt("inventory.defaultCriticalLevel"),
			TxTimeout:            txTimeout,
			Location:             loc,
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("telemetry.enabled"),
			Endpoint:    v.GetString("telemetry.endpoint"),
			ServiceName: v.GetString("telemetry.serviceName"),
		},
		Report: ReportConfig{
			Directory: v.GetString("report.directory"),
		},
		Retry: RetryConfig{
			MaxAttempts: v.GetInt("retry.maxAttempts"),
		},
	}

	if cfg.Inventory.DefaultCriticalLevel < 0 {
		return nil, fmt.Errorf("inventory.defaultCriticalLevel must not be negative, got %d", cfg.Inventory.DefaultCriticalLevel)
	}

	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("retry.maxAttempts must be at least 1, got %d", cfg.Retry.MaxAttempts)
	}

	return cfg, nil
}
