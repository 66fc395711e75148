package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/infrastructure/database"
)

const productColumns = `id, name, buy_price, sell_price, quantity, critical_level, barcode, supplier`

type SQLRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQLRepository(db *sql.DB, dialect database.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error) {
	query := r.dialect.Rebind(`
		INSERT INTO products (name, buy_price, sell_price, quantity, critical_level, barcode, supplier)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	id, err := r.dialect.InsertReturningID(ctx, tx, query,
		p.Name, p.BuyPrice, p.SellPrice, p.Quantity, p.CriticalLevel,
		nullIfEmpty(p.Barcode), nullIfEmpty(p.Supplier),
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return 0, apperrors.NewDuplicateBarcodeError(p.Barcode)
		}
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	query := r.dialect.Rebind(`
		UPDATE products
		SET name = ?, buy_price = ?, sell_price = ?, quantity = ?, critical_level = ?, barcode = ?, supplier = ?
		WHERE id = ?`)

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.BuyPrice, p.SellPrice, p.Quantity, p.CriticalLevel,
		nullIfEmpty(p.Barcode), nullIfEmpty(p.Supplier), p.ID,
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return apperrors.NewDuplicateBarcodeError(p.Barcode)
		}
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", p.ID))
	}

	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := r.dialect.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	return r.findOne(ctx, r.db, query, fmt.Sprintf("product with id %d not found", id), id)
}

// FindByIDForUpdate reads the product inside tx and, where the backend
// supports it, locks the row until the transaction ends.
func (r *SQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	query := r.dialect.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`) + r.dialect.LockClause()
	return r.findOne(ctx, tx, query, fmt.Sprintf("product with id %d not found", id), id)
}

func (r *SQLRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	notFound := fmt.Sprintf("product with barcode %q not found", barcode)
	if barcode == "" {
		return nil, apperrors.NewNotFoundError(notFound)
	}

	query := r.dialect.Rebind(`SELECT ` + productColumns + ` FROM products WHERE barcode = ?`)
	return r.findOne(ctx, r.db, query, notFound, barcode)
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *SQLRepository) FindLowStock(ctx context.Context) ([]domain.Product, error) {
	return r.findMany(ctx, `SELECT `+productColumns+` FROM products WHERE quantity <= critical_level ORDER BY id`)
}

// BarcodeInUse reports whether another product than excludeID holds barcode.
func (r *SQLRepository) BarcodeInUse(ctx context.Context, tx *sql.Tx, barcode string, excludeID int64) (bool, error) {
	if barcode == "" {
		return false, nil
	}

	var count int
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM products WHERE barcode = ? AND id <> ?`)
	if err := tx.QueryRowContext(ctx, query, barcode, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("checking barcode: %w", err)
	}

	return count > 0, nil
}

// DecrementStock subtracts quantity only while enough stock remains and
// reports whether the row was changed.
func (r *SQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, id int64, quantity int) (bool, error) {
	query := r.dialect.Rebind(`UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`)

	result, err := tx.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *SQLRepository) findOne(ctx context.Context, q database.Querier, query, notFound string, args ...any) (*domain.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(notFound)
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) findMany(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		p        domain.Product
		barcode  sql.NullString
		supplier sql.NullString
	)

	err := s.Scan(
		&p.ID, &p.Name, &p.BuyPrice, &p.SellPrice,
		&p.Quantity, &p.CriticalLevel, &barcode, &supplier,
	)
	if err != nil {
		return nil, err
	}

	p.Barcode = barcode.String
	p.Supplier = supplier.String
	return &p, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
