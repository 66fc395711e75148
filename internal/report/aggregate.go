// Package report derives totals, low-stock lists and per-day sums from
// product and sale snapshots, and builds the sales and stock reports on top
// of them.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
)

const DayLayout = "2006-01-02"

type DailyTotal struct {
	Day   string
	Total decimal.Decimal
}

type StockSummary struct {
	TotalStockValue decimal.Decimal
	LowStockCount   int
}

type SalesSummary struct {
	TotalRevenue decimal.Decimal
	TotalProfit  decimal.Decimal
	SaleCount    int
	UnitsSold    int
}

// ValueShare is one slice of the product distribution chart.
type ValueShare struct {
	Name  string
	Value decimal.Decimal
}

// GroupDailySales sums TotalAmount per calendar day in loc, ascending by
// day. Days without sales are absent. A nil loc means time.Local.
func GroupDailySales(sales []domain.Sale, loc *time.Location) []DailyTotal {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		day := s.SaleDate.In(loc).Format(DayLayout)
		byDay[day] = byDay[day].Add(s.TotalAmount)
	}

	totals := make([]DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		totals = append(totals, DailyTotal{Day: day, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Day < totals[j].Day
	})

	return totals
}

func LowStockOf(products []domain.Product) []domain.Product {
	low := []domain.Product{}
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

func SummarizeProducts(products []domain.Product) StockSummary {
	summary := StockSummary{TotalStockValue: decimal.Zero}
	for _, p := range products {
		summary.TotalStockValue = summary.TotalStockValue.Add(p.TotalValue())
		if p.IsLowStock() {
			summary.LowStockCount++
		}
	}
	return summary
}

func SummarizeSales(sales []domain.Sale) SalesSummary {
	summary := SalesSummary{TotalRevenue: decimal.Zero, TotalProfit: decimal.Zero}
	for _, s := range sales {
		summary.TotalRevenue = summary.TotalRevenue.Add(s.TotalAmount)
		summary.TotalProfit = summary.TotalProfit.Add(s.Profit)
		summary.UnitsSold += s.Quantity
	}
	summary.SaleCount = len(sales)
	return summary
}

// ProductDistribution maps product names to stock value in first-seen
// order. Products sharing a name are summed.
func ProductDistribution(products []domain.Product) []ValueShare {
	shares := []ValueShare{}
	index := make(map[string]int)
	for _, p := range products {
		if i, ok := index[p.Name]; ok {
			shares[i].Value = shares[i].Value.Add(p.TotalValue())
			continue
		}
		index[p.Name] = len(shares)
		shares = append(shares, ValueShare{Name: p.Name, Value: p.TotalValue()})
	}
	return shares
}
