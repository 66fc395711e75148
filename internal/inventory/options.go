package inventory

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Option func(*Store)

func WithDefaultCriticalLevel(level int) Option {
	return func(s *Store) {
		s.defaultCriticalLevel = level
	}
}

func WithTxTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.txTimeout = timeout
		}
	}
}

func WithTxOptions(opts *sql.TxOptions) Option {
	return func(s *Store) {
		s.txOptions = opts
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// SaleOption tunes a single RecordSale call.
type SaleOption func(*saleOptions)

type saleOptions struct {
	unitPrice *decimal.Decimal
	saleDate  *time.Time
}

// WithUnitPrice sells at price instead of the product's sell price.
func WithUnitPrice(price decimal.Decimal) SaleOption {
	return func(o *saleOptions) {
		o.unitPrice = &price
	}
}

// WithSaleDate records the sale at t instead of now.
func WithSaleDate(t time.Time) SaleOption {
	return func(o *saleOptions) {
		o.saleDate = &t
	}
}
