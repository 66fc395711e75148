package database

import (
	"context"
	"database/sql"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		buy_price NUMERIC NOT NULL DEFAULT 0,
		sell_price NUMERIC NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		critical_level INTEGER NOT NULL DEFAULT 10,
		barcode TEXT UNIQUE,
		supplier TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC NOT NULL,
		total_amount NUMERIC NOT NULL,
		sale_date DATETIME NOT NULL,
		profit NUMERIC NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_product ON sales (product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (sale_date)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		buy_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		sell_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		quantity INT NOT NULL DEFAULT 0,
		critical_level INT NOT NULL DEFAULT 10,
		barcode VARCHAR(64) NULL,
		supplier VARCHAR(255) NULL,
		UNIQUE KEY uq_products_barcode (barcode)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		total_amount DECIMAL(14,2) NOT NULL,
		sale_date DATETIME(6) NOT NULL,
		profit DECIMAL(14,2) NOT NULL,
		INDEX idx_sales_product (product_id),
		INDEX idx_sales_date (sale_date)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		buy_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		sell_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		critical_level INTEGER NOT NULL DEFAULT 10,
		barcode VARCHAR(64) UNIQUE,
		supplier VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL,
		sale_date TIMESTAMPTZ NOT NULL,
		profit NUMERIC(14,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_product ON sales (product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (sale_date)`,
}

// Migrate creates the products and sales tables when they do not exist.
// sales.product_id is indexed but carries no foreign key: deleting a product
// must leave its sales untouched.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var statements []string
	switch dialect.Driver() {
	case DriverMySQL:
		statements = mysqlSchema
	case DriverPostgres:
		statements = postgresSchema
	default:
		statements = sqliteSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema on %s: %w", dialect.Driver(), err)
		}
	}

	return nil
}

// Tables lists the tables managed by Migrate, children first.
func Tables() []string {
	return []string{"sales", "products"}
}
