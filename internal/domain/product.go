package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "stockkeeper/internal/errors"
)

const DefaultCriticalLevel = 10

type Product struct {
	ID            int64
	Name          string
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	Quantity      int
	CriticalLevel int
	Barcode       string
	Supplier      string
}

// TotalValue is the stock valued at buy price.
func (p Product) TotalValue() decimal.Decimal {
	return p.BuyPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p Product) IsLowStock() bool {
	return p.Quantity <= p.CriticalLevel
}

// Normalized trims the free-text fields the way they are stored.
func (p Product) Normalized() Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Barcode = strings.TrimSpace(p.Barcode)
	p.Supplier = strings.TrimSpace(p.Supplier)
	return p
}

func (p Product) Validate() error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(p.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "required field"})
	}
	if p.BuyPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "buyPrice", Message: "must not be negative"})
	}
	if p.SellPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "sellPrice", Message: "must not be negative"})
	}
	if p.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "must not be negative"})
	}
	if p.CriticalLevel < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "criticalLevel", Message: "must not be negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details...)
	}
	return nil
}

// ProductDraft carries the fields of a product that does not have an id yet.
// A nil CriticalLevel means the store default applies.
type ProductDraft struct {
	Name          string
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	Quantity      int
	CriticalLevel *int
	Barcode       string
	Supplier      string
}

func (d ProductDraft) ToProduct(defaultCriticalLevel int) Product {
	critical := defaultCriticalLevel
	if d.CriticalLevel != nil {
		critical = *d.CriticalLevel
	}

	return Product{
		Name:          d.Name,
		BuyPrice:      d.BuyPrice,
		SellPrice:     d.SellPrice,
		Quantity:      d.Quantity,
		CriticalLevel: critical,
		Barcode:       d.Barcode,
		Supplier:      d.Supplier,
	}.Normalized()
}
