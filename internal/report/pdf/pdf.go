// Package pdf renders sales and stock reports as A4 PDF documents.
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"stockkeeper/internal/report"
	"stockkeeper/internal/report/spreadsheet"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

type column struct {
	label string
	size  int
	align align.Type
}

var salesColumns = []column{
	{"ID", 1, align.Center},
	{"Product", 1, align.Center},
	{"Name", 2, align.Left},
	{"Qty", 1, align.Center},
	{"Unit Price", 2, align.Right},
	{"Total", 2, align.Right},
	{"Profit", 1, align.Right},
	{"Date", 2, align.Center},
}

var stockColumns = []column{
	{"ID", 1, align.Center},
	{"Name", 2, align.Left},
	{"Buy", 1, align.Right},
	{"Sell", 1, align.Right},
	{"Qty", 1, align.Center},
	{"Value", 1, align.Right},
	{"Critical", 1, align.Center},
	{"Barcode", 2, align.Left},
	{"Supplier", 1, align.Left},
	{"Status", 1, align.Center},
}

// SalesReport renders every sale of r followed by its revenue and profit
// totals. Sale dates are rendered in loc.
func SalesReport(r *report.SalesReport, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	m := newDocument("Sales Report")
	m.AddRows(titleRow("Sales Report", fmt.Sprintf("%s to %s",
		r.From.In(loc).Format(time.DateOnly), r.To.In(loc).Format(time.DateOnly))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(salesColumns))

	for _, s := range r.Sales {
		m.AddRows(dataRow(salesColumns,
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.ProductID, 10),
			s.ProductName,
			strconv.Itoa(s.Quantity),
			s.UnitPrice.StringFixed(2),
			s.TotalAmount.StringFixed(2),
			s.Profit.StringFixed(2),
			s.SaleDate.In(loc).Format(spreadsheet.TimestampLayout),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(
		summaryRow("Total Sales:", r.Summary.TotalRevenue.StringFixed(2)),
		summaryRow("Total Profit:", r.Summary.TotalProfit.StringFixed(2)),
	)

	return generate(m)
}

// StockReport renders every product of r with its status, followed by the
// stock value and critical product count.
func StockReport(r *report.StockReport) ([]byte, error) {
	m := newDocument("Stock Report")
	m.AddRows(titleRow("Stock Report", "Generated "+r.GeneratedAt.Format(spreadsheet.TimestampLayout)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(stockColumns))

	for _, p := range r.Products {
		m.AddRows(dataRow(stockColumns,
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.BuyPrice.StringFixed(2),
			p.SellPrice.StringFixed(2),
			strconv.Itoa(p.Quantity),
			p.TotalValue().StringFixed(2),
			strconv.Itoa(p.CriticalLevel),
			p.Barcode,
			p.Supplier,
			spreadsheet.Status(p.IsLowStock()),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(
		summaryRow("Total Stock Value:", r.Summary.TotalStockValue.StringFixed(2)),
		summaryRow("Critical Product Count:", strconv.Itoa(r.Summary.LowStockCount)),
	)

	return generate(m)
}

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(title, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 9,
			}),
		),
	)
}

func headerRow(columns []column) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func dataRow(columns []column, values ...string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func summaryRow(label, value string) core.Row {
	return row.New(7).Add(
		col.New(8).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
		})),
		col.New(4).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
		})),
	)
}
