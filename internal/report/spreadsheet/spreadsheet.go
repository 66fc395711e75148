// Package spreadsheet renders reports and charts as XLSX workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"stockkeeper/internal/report"
)

const (
	SalesSheet        = "Sales Report"
	StockSheet        = "Stock Report"
	DailySheet        = "Daily Sales"
	DistributionSheet = "Product Distribution"

	TimestampLayout = "2006-01-02 15:04:05"
	columnWidth     = 15
)

var (
	salesColumns = []string{
		"Sale ID", "Product ID", "Product Name", "Quantity",
		"Unit Price", "Total Amount", "Profit", "Sale Date",
	}
	stockColumns = []string{
		"Product ID", "Product Name", "Buy Price", "Sell Price",
		"Quantity", "Total Value", "Critical Level",
		"Barcode", "Supplier", "Status",
	}
)

// WriteSalesReport writes one row per sale followed by revenue and profit
// totals. Sale dates are rendered in loc.
func WriteSalesReport(w io.Writer, r *report.SalesReport, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	wb, err := newWorkbook(SalesSheet)
	if err != nil {
		return err
	}
	defer wb.f.Close()

	if err := wb.header(salesColumns); err != nil {
		return err
	}

	rowNum := 2
	for _, s := range r.Sales {
		err := wb.row(rowNum,
			s.ID, s.ProductID, s.ProductName, s.Quantity,
			money(s.UnitPrice), money(s.TotalAmount), money(s.Profit),
			s.SaleDate.In(loc).Format(TimestampLayout),
		)
		if err != nil {
			return err
		}
		rowNum++
	}

	rowNum += 2
	if err := wb.row(rowNum, "Total Sales:", money(r.Summary.TotalRevenue)); err != nil {
		return err
	}
	if err := wb.row(rowNum+1, "Total Profit:", money(r.Summary.TotalProfit)); err != nil {
		return err
	}

	return wb.write(w)
}

// WriteStockReport writes one row per product followed by the stock value
// and critical product count of the same snapshot.
func WriteStockReport(w io.Writer, r *report.StockReport) error {
	wb, err := newWorkbook(StockSheet)
	if err != nil {
		return err
	}
	defer wb.f.Close()

	if err := wb.header(stockColumns); err != nil {
		return err
	}

	rowNum := 2
	for _, p := range r.Products {
		err := wb.row(rowNum,
			p.ID, p.Name, money(p.BuyPrice), money(p.SellPrice),
			p.Quantity, money(p.TotalValue()), p.CriticalLevel,
			p.Barcode, p.Supplier, Status(p.IsLowStock()),
		)
		if err != nil {
			return err
		}
		rowNum++
	}

	rowNum += 2
	if err := wb.row(rowNum, "Total Stock Value:", money(r.Summary.TotalStockValue)); err != nil {
		return err
	}
	if err := wb.row(rowNum+1, "Critical Product Count:", r.Summary.LowStockCount); err != nil {
		return err
	}

	return wb.write(w)
}

// WriteDailyChart writes the day totals as a table with a line chart over it.
func WriteDailyChart(w io.Writer, daily []report.DailyTotal) error {
	wb, err := newWorkbook(DailySheet)
	if err != nil {
		return err
	}
	defer wb.f.Close()

	if err := wb.header([]string{"Date", "Sales Amount"}); err != nil {
		return err
	}

	for i, d := range daily {
		if err := wb.row(i+2, d.Day, money(d.Total)); err != nil {
			return err
		}
	}

	if len(daily) > 0 {
		last := len(daily) + 1
		err := wb.f.AddChart(DailySheet, "D2", &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       ref(DailySheet, "$B$1"),
				Categories: ref(DailySheet, fmt.Sprintf("$A$2:$A$%d", last)),
				Values:     ref(DailySheet, fmt.Sprintf("$B$2:$B$%d", last)),
			}},
			Title: []excelize.RichTextRun{{Text: "Daily Sales"}},
			XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Date"}}},
			YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Sales Amount"}}},
			Legend: excelize.ChartLegend{
				Position: "bottom",
			},
		})
		if err != nil {
			return fmt.Errorf("adding daily sales chart: %w", err)
		}
	}

	return wb.write(w)
}

// WriteDistributionChart writes stock value per product with a pie chart.
func WriteDistributionChart(w io.Writer, shares []report.ValueShare) error {
	wb, err := newWorkbook(DistributionSheet)
	if err != nil {
		return err
	}
	defer wb.f.Close()

	if err := wb.header([]string{"Product", "Total Value"}); err != nil {
		return err
	}

	for i, s := range shares {
		if err := wb.row(i+2, s.Name, money(s.Value)); err != nil {
			return err
		}
	}

	if len(shares) > 0 {
		last := len(shares) + 1
		err := wb.f.AddChart(DistributionSheet, "D2", &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       ref(DistributionSheet, "$B$1"),
				Categories: ref(DistributionSheet, fmt.Sprintf("$A$2:$A$%d", last)),
				Values:     ref(DistributionSheet, fmt.Sprintf("$B$2:$B$%d", last)),
			}},
			Title:    []excelize.RichTextRun{{Text: "Product Distribution"}},
			PlotArea: excelize.ChartPlotArea{ShowPercent: true},
			Legend:   excelize.ChartLegend{Position: "right"},
		})
		if err != nil {
			return fmt.Errorf("adding distribution chart: %w", err)
		}
	}

	return wb.write(w)
}

func Status(lowStock bool) string {
	if lowStock {
		return "Critical"
	}
	return "Normal"
}

type workbook struct {
	f     *excelize.File
	sheet string
}

func newWorkbook(sheet string) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	return &workbook{f: f, sheet: sheet}, nil
}

func (wb *workbook) header(columns []string) error {
	style, err := wb.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	if err := wb.row(1, values...); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := wb.f.SetCellStyle(wb.sheet, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := wb.f.SetColWidth(wb.sheet, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	return nil
}

func (wb *workbook) row(n int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := wb.f.SetSheetRow(wb.sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", n, err)
	}
	return nil
}

func (wb *workbook) write(w io.Writer) error {
	if err := wb.f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func ref(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", sheet, cells)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
