package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"stockkeeper/internal/config"
)

const sqliteDefaultParams = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

// Open connects to the configured backend and verifies the connection.
// SQLite is limited to a single open connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := NewDialect(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	dsn, err := dialect.normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("parsing dsn: %w", err)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("opening database: %w", err)
	}

	if dialect.Driver() == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("pinging database: %w", err)
	}

	return db, dialect, nil
}

func (d Dialect) normalizeDSN(dsn string) (string, error) {
	switch d.driver {
	case DriverSQLite:
		return sqliteDSN(dsn), nil
	case DriverMySQL:
		return mysqlDSN(dsn)
	default:
		return dsn, nil
	}
}

// sqliteDSN turns a path into a file: URI and adds every default parameter
// the DSN does not set itself. Pragmas are matched by name.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "stockkeeper.db"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	path, query, _ := strings.Cut(dsn, "?")
	var params []string
	for _, param := range strings.Split(query, "&") {
		if param != "" {
			params = append(params, param)
		}
	}

	for _, def := range strings.Split(sqliteDefaultParams, "&") {
		if !hasParam(params, def) {
			params = append(params, def)
		}
	}
	return path + "?" + strings.Join(params, "&")
}

func hasParam(params []string, want string) bool {
	for _, param := range params {
		if paramName(param) == paramName(want) {
			return true
		}
	}
	return false
}

// paramName is the key of a query parameter, or the pragma name for _pragma.
func paramName(param string) string {
	key, value, _ := strings.Cut(param, "=")
	if key != "_pragma" {
		return key
	}
	name, _, _ := strings.Cut(value, "(")
	return key + ":" + strings.ToLower(strings.TrimSpace(name))
}

func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
