package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/infrastructure/database"
)

const saleColumns = `id, product_id, product_name, quantity, unit_price, total_amount, profit, sale_date`

type SQLSaleRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQLSaleRepository(db *sql.DB, dialect database.Dialect) *SQLSaleRepository {
	return &SQLSaleRepository{db: db, dialect: dialect}
}

func (r *SQLSaleRepository) Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) (int64, error) {
	query := r.dialect.Rebind(`
		INSERT INTO sales (product_id, product_name, quantity, unit_price, total_amount, profit, sale_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	id, err := r.dialect.InsertReturningID(ctx, tx, query,
		sale.ProductID, sale.ProductName, sale.Quantity,
		sale.UnitPrice, sale.TotalAmount, sale.Profit, sale.SaleDate.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	return id, nil
}

// FindBetween returns sales with from <= sale_date <= to, oldest first.
func (r *SQLSaleRepository) FindBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	query := r.dialect.Rebind(`
		SELECT ` + saleColumns + `
		FROM sales
		WHERE sale_date BETWEEN ? AND ?
		ORDER BY sale_date, id`)

	return r.findMany(ctx, query, from.UTC(), to.UTC())
}

func (r *SQLSaleRepository) FindByProduct(ctx context.Context, productID int64) ([]domain.Sale, error) {
	query := r.dialect.Rebind(`
		SELECT ` + saleColumns + `
		FROM sales
		WHERE product_id = ?
		ORDER BY sale_date, id`)

	return r.findMany(ctx, query, productID)
}

func (r *SQLSaleRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM sales`)
}

func (r *SQLSaleRepository) TotalProfit(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(profit), 0) FROM sales`)
}

func (r *SQLSaleRepository) sum(ctx context.Context, query string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing sales: %w", err)
	}
	// SQLite sums NUMERIC columns as floating point.
	return total.Round(2), nil
}

func (r *SQLSaleRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var s domain.Sale
		err := rows.Scan(
			&s.ID, &s.ProductID, &s.ProductName, &s.Quantity,
			&s.UnitPrice, &s.TotalAmount, &s.Profit, &s.SaleDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning sale row: %w", err)
		}
		s.SaleDate = s.SaleDate.UTC()
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}
