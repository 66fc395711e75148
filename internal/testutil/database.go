package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockkeeper/internal/config"
	"stockkeeper/internal/infrastructure/database"
)

const (
	mysqlDSNEnv    = "STOCKKEEPER_TEST_MYSQL_DSN"
	postgresDSNEnv = "STOCKKEEPER_TEST_POSTGRES_DSN"
)

// SetupTestDB opens a migrated SQLite database in a per-test directory.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stockkeeper_test.db")
	return open(t, config.DatabaseConfig{Driver: database.DriverSQLite, DSN: path})
}

// SetupMySQLTestDB connects to the MySQL server named by
// STOCKKEEPER_TEST_MYSQL_DSN and skips the test when it is not set.
func SetupMySQLTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	dsn := os.Getenv(mysqlDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", mysqlDSNEnv)
	}
	db, dialect := open(t, config.DatabaseConfig{Driver: database.DriverMySQL, DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2})
	CleanupTestDB(t, db)
	return db, dialect
}

// SetupPostgresTestDB is the PostgreSQL counterpart of SetupMySQLTestDB.
func SetupPostgresTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}
	db, dialect := open(t, config.DatabaseConfig{Driver: database.DriverPostgres, DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2})
	CleanupTestDB(t, db)
	return db, dialect
}

// CleanupTestDB empties every managed table.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range database.Tables() {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func open(t *testing.T, cfg config.DatabaseConfig) (*sql.DB, database.Dialect) {
	t.Helper()

	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = time.Minute
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, dialect, err := database.Open(ctx, cfg)
	if err != nil {
		if cfg.Driver == database.DriverSQLite {
			t.Fatalf("failed to open test database: %v", err)
		}
		t.Skipf("test database not available: %v", err)
	}

	if err := database.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db, dialect
}
