package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

const defaultTxTimeout = 5 * time.Second

// Store owns products and the sales log. Writes that must check an
// invariant against current data run inside a single transaction.
type Store struct {
	db       TransactionManager
	products ProductRepository
	sales    SaleRepository
	logger   *zap.Logger

	txOptions            *sql.TxOptions
	txTimeout            time.Duration
	defaultCriticalLevel int
	now                  func() time.Time
}

func NewStore(
	db TransactionManager,
	products ProductRepository,
	sales SaleRepository,
	logger *zap.Logger,
	opts ...Option,
) *Store {
	s := &Store{
		db:                   db,
		products:             products,
		sales:                sales,
		logger:               logger,
		txTimeout:            defaultTxTimeout,
		defaultCriticalLevel: domain.DefaultCriticalLevel,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	p := draft.ToProduct(s.defaultCriticalLevel)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, "creating product", func(ctx context.Context, tx *sql.Tx) error {
		if err := s.ensureBarcodeFree(ctx, tx, p.Barcode, 0); err != nil {
			return err
		}

		id, err := s.products.Insert(ctx, tx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		s.logFailure("product creation failed", err, zap.String("name", p.Name), zap.String("barcode", p.Barcode))
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("productId", p.ID), zap.String("name", p.Name), zap.Int("quantity", p.Quantity))
	return &p, nil
}

// UpdateProduct replaces every field of the product with the given id.
func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) error {
	product = product.Normalized()
	if err := product.Validate(); err != nil {
		return err
	}

	err := s.inTx(ctx, "updating product", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.products.FindByIDForUpdate(ctx, tx, product.ID); err != nil {
			return err
		}

		if err := s.ensureBarcodeFree(ctx, tx, product.Barcode, product.ID); err != nil {
			return err
		}

		return s.products.Update(ctx, tx, product)
	})
	if err != nil {
		s.logFailure("product update failed", err, zap.Int64("productId", product.ID))
		return err
	}

	s.logger.Info("product updated", zap.Int64("productId", product.ID), zap.Int("quantity", product.Quantity))
	return nil
}

// DeleteProduct removes the product. Its sales keep their snapshot fields.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		err = wrap("deleting product", err)
		s.logFailure("product deletion failed", err, zap.Int64("productId", id))
		return err
	}

	s.logger.Info("product deleted", zap.Int64("productId", id))
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("loading product", err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, wrap("listing products", err)
	}
	return products, nil
}

func (s *Store) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.FindLowStock(ctx)
	if err != nil {
		return nil, wrap("listing low stock products", err)
	}
	return products, nil
}

func (s *Store) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	p, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, wrap("finding product by barcode", err)
	}
	return p, nil
}

// RecordSale sells quantity units of a product. The sale row and the stock
// decrement are committed together or not at all, and stock sufficiency is
// checked again by the decrement itself.
func (s *Store) RecordSale(ctx context.Context, productID int64, quantity int, opts ...SaleOption) (*domain.Sale, error) {
	if quantity <= 0 {
		s.logger.Warn("sale rejected", zap.Int64("productId", productID), zap.Int("quantity", quantity), zap.String("reason", "invalid quantity"))
		return nil, apperrors.NewInvalidQuantityError(quantity)
	}

	var o saleOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.unitPrice != nil && o.unitPrice.IsNegative() {
		return nil, apperrors.NewValidationError("invalid sale",
			apperrors.ValidationDetail{Field: "unitPrice", Message: "must not be negative"})
	}

	saleDate := s.now()
	if o.saleDate != nil {
		saleDate = *o.saleDate
	}
	saleDate = saleDate.UTC().Truncate(time.Microsecond)

	var sale domain.Sale
	err := s.inTx(ctx, "recording sale", func(ctx context.Context, tx *sql.Tx) error {
		product, err := s.products.FindByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}

		if quantity > product.Quantity {
			return apperrors.NewInsufficientStockError(productID, quantity, product.Quantity)
		}

		unitPrice := product.SellPrice
		if o.unitPrice != nil {
			unitPrice = *o.unitPrice
		}
		sale = domain.NewSale(*product, quantity, unitPrice, saleDate)

		decremented, err := s.products.DecrementStock(ctx, tx, productID, quantity)
		if err != nil {
			return err
		}
		if !decremented {
			current, err := s.products.FindByIDForUpdate(ctx, tx, productID)
			if err != nil {
				return err
			}
			return apperrors.NewInsufficientStockError(productID, quantity, current.Quantity)
		}

		id, err := s.sales.Insert(ctx, tx, sale)
		if err != nil {
			return err
		}
		sale.ID = id
		return nil
	})
	if err != nil {
		s.logFailure("sale rejected", err, zap.Int64("productId", productID), zap.Int("quantity", quantity))
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.Int64("saleId", sale.ID),
		zap.Int64("productId", productID),
		zap.Int("quantity", quantity),
		zap.String("totalAmount", sale.TotalAmount.StringFixed(2)),
		zap.String("profit", sale.Profit.StringFixed(2)),
	)
	return &sale, nil
}

// ListSales returns the sales made between from and to, both inclusive.
func (s *Store) ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	if to.Before(from) {
		return []domain.Sale{}, nil
	}

	sales, err := s.sales.FindBetween(ctx, from, to)
	if err != nil {
		return nil, wrap("listing sales", err)
	}
	return sales, nil
}

func (s *Store) ListProductSales(ctx context.Context, productID int64) ([]domain.Sale, error) {
	sales, err := s.sales.FindByProduct(ctx, productID)
	if err != nil {
		return nil, wrap("listing product sales", err)
	}
	return sales, nil
}

func (s *Store) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.sales.TotalRevenue(ctx)
	if err != nil {
		return decimal.Zero, wrap("computing total revenue", err)
	}
	return total, nil
}

func (s *Store) TotalProfit(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.sales.TotalProfit(ctx)
	if err != nil {
		return decimal.Zero, wrap("computing total profit", err)
	}
	return total, nil
}

func (s *Store) ensureBarcodeFree(ctx context.Context, tx *sql.Tx, barcode string, excludeID int64) error {
	inUse, err := s.products.BarcodeInUse(ctx, tx, barcode, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.NewDuplicateBarcodeError(barcode)
	}
	return nil
}

// inTx runs fn in a single transaction. Conflicts are returned as they
// are; retrying is up to the caller.
func (s *Store) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, s.txOptions)
	if err != nil {
		return apperrors.NewStorageError(op, fmt.Errorf("beginning transaction: %w", err))
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError(op, fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

func (s *Store) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperrors.IsDomainError(err) {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}

// wrap passes domain errors through and turns anything else into a
// StorageError.
func wrap(op string, err error) error {
	if apperrors.IsDomainError(err) {
		return err
	}
	if _, ok := apperrors.IsStorageError(err); ok {
		return err
	}
	return apperrors.NewStorageError(op, err)
}
