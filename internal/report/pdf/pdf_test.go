package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/report"
)

func TestSalesReport(t *testing.T) {
	sales := []domain.Sale{{
		ID:          1,
		ProductID:   7,
		ProductName: "Widget",
		Quantity:    16,
		UnitPrice:   decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(160),
		Profit:      decimal.NewFromInt(80),
		SaleDate:    time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	}}
	r := &report.SalesReport{
		From:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Sales:   sales,
		Summary: report.SummarizeSales(sales),
	}

	out, err := SalesReport(r, time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSalesReport_Empty(t *testing.T) {
	out, err := SalesReport(&report.SalesReport{}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestStockReport(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Widget", BuyPrice: decimal.NewFromInt(5), SellPrice: decimal.NewFromInt(10), Quantity: 4, CriticalLevel: 5, Barcode: "123", Supplier: "ACME"},
	}
	r := &report.StockReport{
		GeneratedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		Products:    products,
		Summary:     report.SummarizeProducts(products),
	}

	out, err := StockReport(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}
