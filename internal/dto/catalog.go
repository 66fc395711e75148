package dto

import (
	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

// CatalogEntry is one product as it appears in a YAML catalog file. Prices
// are kept as strings so they round-trip without float rounding.
type CatalogEntry struct {
	ID            int64  `yaml:"id,omitempty"`
	Name          string `yaml:"name"`
	BuyPrice      string `yaml:"buyPrice"`
	SellPrice     string `yaml:"sellPrice"`
	Quantity      int    `yaml:"quantity"`
	CriticalLevel *int   `yaml:"criticalLevel,omitempty"`
	Barcode       string `yaml:"barcode,omitempty"`
	Supplier      string `yaml:"supplier,omitempty"`
}

type Catalog struct {
	Products []CatalogEntry `yaml:"products"`
}

func (e CatalogEntry) ToDraft() (domain.ProductDraft, error) {
	var details []apperrors.ValidationDetail

	buy, err := parsePrice(e.BuyPrice)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "buyPrice", Message: "not a decimal number"})
	}
	sell, err := parsePrice(e.SellPrice)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "sellPrice", Message: "not a decimal number"})
	}
	if len(details) > 0 {
		return domain.ProductDraft{}, apperrors.NewValidationError("invalid catalog entry", details...)
	}

	return domain.ProductDraft{
		Name:          e.Name,
		BuyPrice:      buy,
		SellPrice:     sell,
		Quantity:      e.Quantity,
		CriticalLevel: e.CriticalLevel,
		Barcode:       e.Barcode,
		Supplier:      e.Supplier,
	}, nil
}

func NewCatalogEntry(p domain.Product) CatalogEntry {
	critical := p.CriticalLevel
	return CatalogEntry{
		ID:            p.ID,
		Name:          p.Name,
		BuyPrice:      p.BuyPrice.StringFixed(2),
		SellPrice:     p.SellPrice.StringFixed(2),
		Quantity:      p.Quantity,
		CriticalLevel: &critical,
		Barcode:       p.Barcode,
		Supplier:      p.Supplier,
	}
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
