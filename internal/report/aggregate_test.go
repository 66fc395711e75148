package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockkeeper/internal/domain"
)

func saleAt(at time.Time, amount int64) domain.Sale {
	return domain.Sale{
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(amount),
		Profit:      decimal.NewFromInt(amount / 10),
		SaleDate:    at,
	}
}

func product(name string, buy string, qty, critical int) domain.Product {
	return domain.Product{
		Name:          name,
		BuyPrice:      decimal.RequireFromString(buy),
		Quantity:      qty,
		CriticalLevel: critical,
	}
}

func TestGroupDailySales(t *testing.T) {
	sales := []domain.Sale{
		saleAt(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 30),
		saleAt(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 100),
		saleAt(time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), 50),
	}

	daily := GroupDailySales(sales, time.UTC)

	require.Len(t, daily, 2)
	assert.Equal(t, "2024-01-01", daily[0].Day)
	assert.True(t, decimal.NewFromInt(150).Equal(daily[0].Total))
	assert.Equal(t, "2024-01-02", daily[1].Day)
	assert.True(t, decimal.NewFromInt(30).Equal(daily[1].Total))
}

func TestGroupDailySales_NoZeroFill(t *testing.T) {
	sales := []domain.Sale{
		saleAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1),
		saleAt(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1),
	}

	daily := GroupDailySales(sales, time.UTC)

	require.Len(t, daily, 2)
	assert.Equal(t, "2024-01-05", daily[1].Day)
}

func TestGroupDailySales_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	sales := []domain.Sale{
		saleAt(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), 10),
	}

	assert.Equal(t, "2024-01-02", GroupDailySales(sales, time.UTC)[0].Day)
	assert.Equal(t, "2024-01-01", GroupDailySales(sales, loc)[0].Day)
}

func TestGroupDailySales_Empty(t *testing.T) {
	assert.Empty(t, GroupDailySales(nil, nil))
	assert.NotNil(t, GroupDailySales([]domain.Sale{}, time.UTC))
}

func TestLowStockOf(t *testing.T) {
	products := []domain.Product{
		product("healthy", "1", 20, 5),
		product("at threshold", "1", 5, 5),
		product("empty", "1", 0, 0),
	}

	low := LowStockOf(products)

	require.Len(t, low, 2)
	assert.Equal(t, "at threshold", low[0].Name)
	assert.Equal(t, "empty", low[1].Name)
	assert.Empty(t, LowStockOf(nil))
}

func TestSummarizeProducts(t *testing.T) {
	products := []domain.Product{
		product("Widget", "5", 4, 5),
		product("Gadget", "2.50", 10, 3),
	}

	summary := SummarizeProducts(products)

	assert.True(t, decimal.NewFromInt(45).Equal(summary.TotalStockValue), "got %s", summary.TotalStockValue)
	assert.Equal(t, 1, summary.LowStockCount)
}

func TestSummarizeProducts_Empty(t *testing.T) {
	summary := SummarizeProducts(nil)

	assert.True(t, summary.TotalStockValue.IsZero())
	assert.Zero(t, summary.LowStockCount)
}

func TestSummarizeSales(t *testing.T) {
	sales := []domain.Sale{
		{Quantity: 16, TotalAmount: decimal.NewFromInt(160), Profit: decimal.NewFromInt(80)},
		{Quantity: 2, TotalAmount: decimal.RequireFromString("9.50"), Profit: decimal.RequireFromString("-0.50")},
	}

	summary := SummarizeSales(sales)

	assert.True(t, decimal.RequireFromString("169.50").Equal(summary.TotalRevenue))
	assert.True(t, decimal.RequireFromString("79.50").Equal(summary.TotalProfit))
	assert.Equal(t, 2, summary.SaleCount)
	assert.Equal(t, 18, summary.UnitsSold)
}

func TestSummarizeSales_Empty(t *testing.T) {
	summary := SummarizeSales(nil)

	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.TotalProfit.IsZero())
	assert.Zero(t, summary.SaleCount)
}

func TestProductDistribution(t *testing.T) {
	products := []domain.Product{
		product("Widget", "5", 4, 0),
		product("Gadget", "2", 10, 0),
		product("Widget", "1", 6, 0),
	}

	shares := ProductDistribution(products)

	require.Len(t, shares, 2)
	assert.Equal(t, "Widget", shares[0].Name)
	assert.True(t, decimal.NewFromInt(26).Equal(shares[0].Value))
	assert.Equal(t, "Gadget", shares[1].Name)
	assert.True(t, decimal.NewFromInt(20).Equal(shares[1].Value))
	assert.Empty(t, ProductDistribution(nil))
}
