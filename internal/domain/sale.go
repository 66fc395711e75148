package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an append-only record. ProductName and UnitPrice are copies taken
// when the sale was made and never follow later product edits.
type Sale struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	Profit      decimal.Decimal
	SaleDate    time.Time
}

// NewSale derives totals from the product as it is at the time of sale.
func NewSale(p Product, quantity int, unitPrice decimal.Decimal, at time.Time) Sale {
	q := decimal.NewFromInt(int64(quantity))

	return Sale{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(q),
		Profit:      unitPrice.Sub(p.BuyPrice).Mul(q),
		SaleDate:    at,
	}
}
