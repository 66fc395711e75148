package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const (
	mysqlDuplicateEntry     = 1062
	mysqlLockWaitTimeout    = 1205
	mysqlDeadlock           = 1213
	postgresUniqueViolation = "23505"
)

var postgresConflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect hides the SQL differences between the supported backends.
// Queries are written with ? placeholders and rebound per backend.
type Dialect struct {
	driver string
}

func NewDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3", "":
		return Dialect{driver: DriverSQLite}, nil
	case DriverMySQL:
		return Dialect{driver: DriverMySQL}, nil
	case DriverPostgres, "postgresql", "pgx":
		return Dialect{driver: DriverPostgres}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) Driver() string {
	return d.driver
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string {
	if d.driver == DriverPostgres {
		return "pgx"
	}
	return d.driver
}

func (d Dialect) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// LockClause is appended to a SELECT that must hold the row until commit.
// SQLite serialises writers on its own and has no row locks.
func (d Dialect) LockClause() string {
	if d.driver == DriverSQLite {
		return ""
	}
	return " FOR UPDATE"
}

func (d Dialect) TxOptions() *sql.TxOptions {
	if d.driver == DriverMySQL {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	}
	return nil
}

// InsertReturningID runs an INSERT and returns the generated id.
func (d Dialect) InsertReturningID(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	if d.driver == DriverPostgres {
		var id int64
		if err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	switch d.driver {
	case DriverMySQL:
		var myErr *mysql.MySQLError
		return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
	case DriverPostgres:
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation
	default:
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
		}
		return strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
}

// IsTransientConflict reports whether err is a lock conflict that a fresh
// attempt of the same transaction may not hit again.
func (d Dialect) IsTransientConflict(err error) bool {
	if err == nil {
		return false
	}

	switch d.driver {
	case DriverMySQL:
		var myErr *mysql.MySQLError
		return errors.As(err, &myErr) && (myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout)
	case DriverPostgres:
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && postgresConflictCodes[pgErr.Code]
	default:
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			primary := liteErr.Code() & 0xff
			return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
		}
		return strings.Contains(err.Error(), "database is locked")
	}
}
