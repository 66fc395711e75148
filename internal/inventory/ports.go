package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
)

// Inventory is the contract the presentation and reporting layers use.
type Inventory interface {
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	RecordSale(ctx context.Context, productID int64, quantity int, opts ...SaleOption) (*domain.Sale, error)
	ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	ListProductSales(ctx context.Context, productID int64) ([]domain.Sale, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	TotalProfit(ctx context.Context) (decimal.Decimal, error)
}

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, p domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindLowStock(ctx context.Context) ([]domain.Product, error)
	BarcodeInUse(ctx context.Context, tx *sql.Tx, barcode string, excludeID int64) (bool, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, id int64, quantity int) (bool, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) (int64, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	FindByProduct(ctx context.Context, productID int64) ([]domain.Sale, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	TotalProfit(ctx context.Context) (decimal.Decimal, error)
}
